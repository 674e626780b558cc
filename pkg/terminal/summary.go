// Package terminal prints the post-run summary: the resolved window,
// headline metrics per month, the findings breakdown and where the
// artifacts were written.
package terminal

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hrpulse/hrpulse/pkg/kpi"
	"github.com/hrpulse/hrpulse/pkg/records"
)

// maxFindingsShown caps the per-finding listing; the full list lives in
// the bundle.
const maxFindingsShown = 5

// Summary is everything the run report needs.
type Summary struct {
	TargetMonth   string
	Months        []string
	Snapshots     []kpi.Snapshot
	Findings      []records.Finding
	BundlePath    string
	BundleBytes   uint64
	DashboardPath string
}

// Print writes the run summary to w. noColor disables ANSI colors for
// non-terminal output.
func Print(w io.Writer, s Summary, noColor bool) {
	color.NoColor = noColor //nolint:reassign // intentional override of library global

	fmt.Fprintf(w, "Aggregation window ending %s: %d month(s)\n\n", s.TargetMonth, len(s.Months))

	if len(s.Snapshots) > 0 {
		printMetricTable(w, s.Snapshots)
		fmt.Fprintln(w)
	}

	printFindings(w, s.Findings)

	if s.BundlePath != "" {
		fmt.Fprintf(w, "Bundle:    %s (%s)\n", s.BundlePath, humanize.Bytes(s.BundleBytes))
	}

	if s.DashboardPath != "" {
		fmt.Fprintf(w, "Dashboard: %s\n", s.DashboardPath)
	}
}

func printMetricTable(w io.Writer, snapshots []kpi.Snapshot) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{
		"Month", "Employees", "Absence %", "Resignation %", "Hires", "Resignations", "Data Errors",
	})

	for _, snapshot := range snapshots {
		tbl.AppendRow(table.Row{
			snapshot.Month,
			humanize.Comma(int64(snapshot.Value(kpi.MetricTotalEmployees))),
			fmt.Sprintf("%.1f", snapshot.Value(kpi.MetricAbsenceRate)),
			fmt.Sprintf("%.1f", snapshot.Value(kpi.MetricResignationRate)),
			int(snapshot.Value(kpi.MetricHires)),
			int(snapshot.Value(kpi.MetricResignations)),
			int(snapshot.Value(kpi.MetricDataErrorCount)),
		})
	}

	tbl.Render()
}

func printFindings(w io.Writer, findings []records.Finding) {
	if len(findings) == 0 {
		color.New(color.FgGreen).Fprintln(w, "No data-quality findings")
		fmt.Fprintln(w)

		return
	}

	counts := records.CountBySeverity(findings)

	fmt.Fprintf(w, "Findings: %d total (", len(findings))
	color.New(color.FgRed).Fprintf(w, "%d critical", counts[records.SeverityCritical])
	fmt.Fprint(w, ", ")
	color.New(color.FgYellow).Fprintf(w, "%d warning", counts[records.SeverityWarning])
	fmt.Fprint(w, ", ")
	color.New(color.FgCyan).Fprintf(w, "%d info", counts[records.SeverityInfo])
	fmt.Fprintln(w, ")")

	shown := 0

	for _, finding := range findings {
		if finding.Severity != records.SeverityCritical {
			continue
		}

		if shown == maxFindingsShown {
			fmt.Fprintln(w, "  ... more in the bundle findings list")

			break
		}

		color.New(color.FgRed).Fprintf(w, "  - [%s] %s\n", finding.Category, finding.Description)

		shown++
	}

	fmt.Fprintln(w)
}
