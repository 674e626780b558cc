package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/load"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/window"
)

const (
	validateCmdUse   = "validate"
	validateCmdShort = "Check source files and KPI configuration without generating"
)

// validateOptions holds the validate command flags.
type validateOptions struct {
	sourceDir  string
	start      string
	configPath string
	kpiTable   string
	noColor    bool
}

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   validateCmdUse,
		Short: validateCmdShort,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sourceDir, "source", "s", "", "directory with monthly source files (required)")
	cmd.Flags().StringVar(&opts.start, "start", defaultWindowStart, "earliest supported month YYYY-MM")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "policy configuration file")
	cmd.Flags().StringVar(&opts.kpiTable, "kpi-table", "", "KPI section configuration YAML (default: built-in table)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	color.NoColor = opts.noColor //nolint:reassign // intentional override of library global
	out := cmd.OutOrStdout()

	policy, loadErr := config.Load(opts.configPath)
	if loadErr != nil {
		return loadErr
	}

	_, factoryErr := buildFactory(opts.kpiTable)
	if factoryErr != nil {
		return factoryErr
	}

	color.New(color.FgGreen).Fprintln(out, "KPI configuration is valid")

	start, startErr := monthkey.Parse(opts.start)
	if startErr != nil {
		return startErr
	}

	now := time.Now().UTC()

	resolution, resolveErr := window.Resolve(
		opts.sourceDir, start, monthkey.Key{Year: now.Year(), Month: now.Month()}, policy.Months)
	if resolveErr != nil {
		return fmt.Errorf("%w: %w", load.ErrDataLoad, resolveErr)
	}

	for _, finding := range resolution.Findings {
		color.New(color.FgYellow).Fprintf(out, "  - [%s] %s\n", finding.Category, finding.Description)
	}

	fmt.Fprintf(out, "Resolved %d month(s)\n", len(resolution.Keys))

	var firstErr error

	for _, key := range resolution.Keys {
		checkErr := validateMonth(opts.sourceDir, key, resolution.Sources[key], policy, cmd)
		if checkErr != nil && firstErr == nil {
			firstErr = checkErr
		}
	}

	return firstErr
}

func validateMonth(
	sourceDir string, key monthkey.Key, filename string, policy *config.Policy, cmd *cobra.Command,
) error {
	out := cmd.OutOrStdout()

	file, readErr := load.ReadMonthFile(filepath.Join(sourceDir, filename))
	if readErr != nil {
		color.New(color.FgRed).Fprintf(out, "%s: %v\n", key, readErr)

		return readErr
	}

	_, findings := records.Load(key, file.Employees, file.Attendance, policy.Vocab)
	counts := records.CountBySeverity(findings)

	if counts[records.SeverityCritical] > 0 {
		color.New(color.FgRed).Fprintf(out, "%s: %s ok, %d critical, %d warning\n",
			key, filename, counts[records.SeverityCritical], counts[records.SeverityWarning])
	} else if len(findings) > 0 {
		color.New(color.FgYellow).Fprintf(out, "%s: %s ok, %d warning\n",
			key, filename, counts[records.SeverityWarning])
	} else {
		color.New(color.FgGreen).Fprintf(out, "%s: %s ok\n", key, filename)
	}

	for _, finding := range findings {
		if finding.Severity == records.SeverityCritical {
			color.New(color.FgRed).Fprintf(out, "  - [%s] %s\n", finding.Category, finding.Description)
		}
	}

	return nil
}
