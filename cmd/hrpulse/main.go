// Package main provides the entry point for the hrpulse CLI tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hrpulse/hrpulse/cmd/hrpulse/commands"
	"github.com/hrpulse/hrpulse/pkg/version"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrpulse",
		Short: "HRPulse - monthly HR KPI aggregation and reporting",
		Long: `HRPulse ingests monthly employee and attendance records and produces
per-month KPI metrics, per-employee timelines and a KPI dashboard.

Commands:
  generate  Run the aggregation pipeline and write the output bundle
  validate  Check source files and KPI configuration without generating`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "hrpulse %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
