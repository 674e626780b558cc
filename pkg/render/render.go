// Package render turns view models into a single self-contained HTML
// dashboard. Chart sections go through go-echarts; stat summaries and
// employee tables are plain templated HTML. The renderer consumes only
// what the view models carry and never hardcodes months or KPIs.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/hrpulse/hrpulse/pkg/viewmodel"
)

// renderable is the chart contract shared by every echarts type.
type renderable interface {
	Render(w io.Writer) error
}

// KPIView groups the materialized sections of one KPI for the page.
type KPIView struct {
	ID     string
	Title  string
	Models []viewmodel.ViewModel
}

// Page is one dashboard document.
type Page struct {
	Title string
	KPIs  []KPIView
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2rem; background: #fafafa; color: #222; }
section.kpi { background: #fff; border: 1px solid #ddd; border-radius: 6px; margin-bottom: 2rem; padding: 1rem 1.5rem; }
.stat-card { display: inline-block; border: 1px solid #e0e0e0; border-radius: 6px; padding: 0.8rem 1.4rem; margin: 0.4rem; }
.stat-value { font-size: 1.8rem; font-weight: 600; }
.stat-delta { color: #666; font-size: 0.9rem; }
table { border-collapse: collapse; width: 100%; margin: 0.6rem 0; }
th, td { border: 1px solid #e0e0e0; padding: 0.35rem 0.6rem; text-align: left; font-size: 0.9rem; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .KPIs}}<section class="kpi" id="{{.ID}}">
<h2>{{.Title}}</h2>
{{range .Sections}}{{.}}{{end}}
</section>
{{end}}</body>
</html>
`

const statCardTemplate = `<div class="stat-card">
<div class="stat-title">{{.Title}}</div>
<div class="stat-value">{{printf "%.1f" .Stat.Value}}</div>
{{if .Stat.Delta}}<div class="stat-delta">{{printf "%+.1f" .Stat.Delta.Absolute}}{{if .Stat.Delta.Percentage}} ({{.Stat.Delta.Percentage}}%){{end}} vs previous month</div>{{end}}
{{if .Stat.TierCounts}}<div class="stat-tiers">{{range $tier, $count := .Stat.TierCounts}}<span>{{$tier}}: {{$count}}</span> {{end}}</div>{{end}}
</div>
`

const employeeTableTemplate = `<h3>{{.Title}}</h3>
<table>
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Rows}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Team}}</td><td>{{.Position}}</td><td>{{.TenureDays}}</td><td>{{printf "%.1f" .AttendanceRate}}</td><td>{{.UnauthorizedAbsences}}</td><td>{{.RiskScore}}</td><td>{{.RiskBand}}</td><td>{{.Tier}}</td></tr>
{{end}}</tbody>
</table>
`

var (
	pageTmpl  = template.Must(template.New("page").Parse(pageTemplate))
	statTmpl  = template.Must(template.New("stat").Parse(statCardTemplate))
	tableTmpl = template.Must(template.New("table").Parse(employeeTableTemplate))
)

// WritePage renders the dashboard to w.
func WritePage(w io.Writer, page Page) error {
	type kpiData struct {
		ID       string
		Title    string
		Sections []template.HTML
	}

	kpis := make([]kpiData, 0, len(page.KPIs))

	for _, view := range page.KPIs {
		sections := make([]template.HTML, 0, len(view.Models))

		for _, model := range view.Models {
			section, err := renderSection(model)
			if err != nil {
				return fmt.Errorf("render kpi %q: %w", view.ID, err)
			}

			sections = append(sections, section)
		}

		kpis = append(kpis, kpiData{ID: view.ID, Title: view.Title, Sections: sections})
	}

	err := pageTmpl.Execute(w, struct {
		Title string
		KPIs  []kpiData
	}{Title: page.Title, KPIs: kpis})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

func renderSection(model viewmodel.ViewModel) (template.HTML, error) {
	switch model.Type {
	case viewmodel.SectionStatSummary:
		return executeTemplate(statTmpl, model)
	case viewmodel.SectionEmployeeTable:
		return executeTemplate(tableTmpl, model)
	default:
		return renderChartSection(model)
	}
}

func executeTemplate(tmpl *template.Template, model viewmodel.ViewModel) (template.HTML, error) {
	var buf bytes.Buffer

	err := tmpl.Execute(&buf, model)
	if err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}

	return template.HTML(buf.String()), nil
}

func renderChartSection(model viewmodel.ViewModel) (template.HTML, error) {
	chart, err := chartFor(model)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	renderErr := chart.Render(&buf)
	if renderErr != nil {
		return "", fmt.Errorf("render chart %q: %w", model.Title, renderErr)
	}

	return template.HTML(extractChartContent(buf.String())), nil
}

// extractChartContent strips the full HTML document echarts emits down
// to the chart container and its script, so charts embed in one page.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	return html[start:end]
}
