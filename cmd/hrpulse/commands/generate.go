// Package commands implements the hrpulse subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/bundle"
	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/kpi"
	"github.com/hrpulse/hrpulse/pkg/load"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/render"
	"github.com/hrpulse/hrpulse/pkg/terminal"
	"github.com/hrpulse/hrpulse/pkg/timeline"
	"github.com/hrpulse/hrpulse/pkg/viewmodel"
	"github.com/hrpulse/hrpulse/pkg/window"
)

const (
	generateCmdUse   = "generate"
	generateCmdShort = "Run the aggregation pipeline and write the output bundle"

	outputDirPerm = 0o750

	bundleBasename    = "run"
	dashboardFilename = "dashboard.html"
	dashboardTitle    = "HR KPI Dashboard"

	// defaultWindowStart is the earliest supported data month.
	defaultWindowStart = "2015-01"
)

// Bundle output formats.
const (
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatJSONLZ4 = "json.lz4"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown bundle format (use json, yaml or json.lz4)")

// generateOptions holds the generate command flags.
type generateOptions struct {
	sourceDir  string
	outputDir  string
	target     string
	start      string
	configPath string
	kpiTable   string
	format     string
	noColor    bool
}

// NewGenerateCommand creates the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   generateCmdUse,
		Short: generateCmdShort,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sourceDir, "source", "s", "", "directory with monthly source files (required)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "out", "output directory for bundle and dashboard")
	cmd.Flags().StringVarP(&opts.target, "month", "m", "", "target month YYYY-MM (default: latest resolved month)")
	cmd.Flags().StringVar(&opts.start, "start", defaultWindowStart, "earliest supported month YYYY-MM")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "policy configuration file")
	cmd.Flags().StringVar(&opts.kpiTable, "kpi-table", "", "KPI section configuration YAML (default: built-in table)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "bundle format: json, yaml or json.lz4")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	policy, loadErr := config.Load(opts.configPath)
	if loadErr != nil {
		return loadErr
	}

	codec, codecErr := codecForFormat(opts.format)
	if codecErr != nil {
		return codecErr
	}

	// The factory validates every section before any data is read, so a
	// misconfigured KPI table never aborts a half-finished run.
	factory, factoryErr := buildFactory(opts.kpiTable)
	if factoryErr != nil {
		return factoryErr
	}

	run, runErr := executeRun(opts, policy)
	if runErr != nil {
		return runErr
	}

	mkErr := os.MkdirAll(opts.outputDir, outputDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create output dir: %w", mkErr)
	}

	bundlePath, bundleBytes, writeErr := writeBundle(opts.outputDir, codec, run)
	if writeErr != nil {
		return writeErr
	}

	dashboardPath, renderErr := writeDashboard(opts.outputDir, factory, run)
	if renderErr != nil {
		return renderErr
	}

	terminal.Print(cmd.OutOrStdout(), terminal.Summary{
		TargetMonth:   run.target.String(),
		Months:        monthkey.Strings(run.window),
		Snapshots:     run.snapshots,
		Findings:      run.findings,
		BundlePath:    bundlePath,
		BundleBytes:   bundleBytes,
		DashboardPath: dashboardPath,
	}, opts.noColor)

	return nil
}

// runState carries the computed artifacts of one generation run.
type runState struct {
	target    monthkey.Key
	window    []monthkey.Key
	snapshots []kpi.Snapshot
	index     *aggindex.Index
	findings  []records.Finding
}

// executeRun resolves the window ending at the target month and computes
// every per-month artifact in ascending month order. Findings merge
// deterministically: window findings first, then per month in key order.
func executeRun(opts *generateOptions, policy *config.Policy) (*runState, error) {
	start, startErr := monthkey.Parse(opts.start)
	if startErr != nil {
		return nil, startErr
	}

	end, endErr := resolveTarget(opts, policy, start)
	if endErr != nil {
		return nil, endErr
	}

	resolution, resolveErr := window.Resolve(opts.sourceDir, start, end, policy.Months)
	if resolveErr != nil {
		return nil, fmt.Errorf("%w: %w", load.ErrDataLoad, resolveErr)
	}

	findings := resolution.Findings
	stores := make(map[monthkey.Key]*records.Store, len(resolution.Keys))
	snapshots := make([]kpi.Snapshot, 0, len(resolution.Keys))
	engine := kpi.NewEngine(policy.Tenure)

	for _, key := range resolution.Keys {
		path := filepath.Join(opts.sourceDir, resolution.Sources[key])

		file, readErr := load.ReadMonthFile(path)
		if readErr != nil {
			return nil, readErr
		}

		store, storeFindings := records.Load(key, file.Employees, file.Attendance, policy.Vocab)
		stores[key] = store

		snapshot, metricFindings := engine.Compute(store, len(storeFindings))
		snapshots = append(snapshots, snapshot)

		findings = append(findings, storeFindings...)
		findings = append(findings, metricFindings...)

		slog.Debug("computed month", "month", key.String(), "employees", len(store.Employees()))
	}

	timelines := timeline.Build(resolution.Keys, stores)
	index := aggindex.New(resolution.Keys, snapshots, timelines, stores, policy.Tiers, policy.Risk)

	target := end
	if len(resolution.Keys) > 0 {
		target = resolution.Keys[len(resolution.Keys)-1]
	}

	return &runState{
		target:    target,
		window:    resolution.Keys,
		snapshots: snapshots,
		index:     index,
		findings:  findings,
	}, nil
}

// resolveTarget parses --month, or scans the source directory for the
// latest available month when the flag is unset.
func resolveTarget(opts *generateOptions, policy *config.Policy, start monthkey.Key) (monthkey.Key, error) {
	if opts.target != "" {
		return monthkey.Parse(opts.target)
	}

	now := time.Now().UTC()
	probe := monthkey.Key{Year: now.Year(), Month: now.Month()}

	resolution, err := window.Resolve(opts.sourceDir, start, probe, policy.Months)
	if err != nil {
		return monthkey.Key{}, fmt.Errorf("%w: %w", load.ErrDataLoad, err)
	}

	if len(resolution.Keys) == 0 {
		return probe, nil
	}

	return resolution.Keys[len(resolution.Keys)-1], nil
}

func buildFactory(tablePath string) (*viewmodel.Factory, error) {
	table := viewmodel.DefaultTable()

	if tablePath != "" {
		loaded, err := viewmodel.LoadTable(tablePath)
		if err != nil {
			return nil, err
		}

		table = loaded
	}

	return viewmodel.NewFactory(table)
}

func codecForFormat(format string) (bundle.Codec, error) {
	switch format {
	case formatJSON:
		return bundle.NewJSONCodec(), nil
	case formatYAML:
		return bundle.NewYAMLCodec(), nil
	case formatJSONLZ4:
		return bundle.NewLZ4Codec(bundle.NewJSONCodec()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeBundle(outputDir string, codec bundle.Codec, run *runState) (string, uint64, error) {
	b := bundle.Build(run.index, run.findings, time.Now())

	path, err := bundle.Write(outputDir, bundleBasename, codec, b)
	if err != nil {
		return "", 0, err
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return path, 0, nil
	}

	return path, uint64(info.Size()), nil
}

func writeDashboard(outputDir string, factory *viewmodel.Factory, run *runState) (string, error) {
	page := render.Page{
		Title: fmt.Sprintf("%s %s", dashboardTitle, run.target.String()),
		KPIs:  make([]render.KPIView, 0, len(factory.KPIs())),
	}

	for _, entry := range factory.KPIs() {
		models, err := factory.MaterializeKPI(entry.ID, run.index, run.target)
		if err != nil {
			return "", err
		}

		page.KPIs = append(page.KPIs, render.KPIView{ID: entry.ID, Title: entry.Title, Models: models})
	}

	path := filepath.Join(outputDir, dashboardFilename)

	file, createErr := os.Create(path)
	if createErr != nil {
		return "", fmt.Errorf("create dashboard: %w", createErr)
	}
	defer file.Close()

	writeErr := render.WritePage(file, page)
	if writeErr != nil {
		return "", writeErr
	}

	return path, nil
}
