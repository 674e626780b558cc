package render

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hrpulse/hrpulse/pkg/viewmodel"
)

// Chart dimensions and series styling.
const (
	chartWidth  = "100%"
	chartHeight = "480px"
	lineWidth   = 2
)

func buildTrendChart(title string, trend *viewmodel.TrendChart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(trend.Labels)

	for _, series := range trend.Series {
		data := make([]opts.LineData, len(series.Values))

		for i, value := range series.Values {
			data[i] = opts.LineData{Value: value}
		}

		line.AddSeries(series.Name, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
		)
	}

	return line
}

func buildComparisonChart(title string, comparison *viewmodel.ComparisonChart) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Team"}),
	)
	bar.SetXAxis(comparison.Labels)

	data := make([]opts.BarData, len(comparison.Values))

	for i, value := range comparison.Values {
		data[i] = opts.BarData{Value: value}
	}

	bar.AddSeries(comparison.Metric, data)

	return bar
}

func buildTimelineChart(title string, timeline *viewmodel.TimelineSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(timeline.Labels)

	for _, series := range timeline.Series {
		data := make([]opts.LineData, len(series.Values))

		for i, value := range series.Values {
			// Absent months break the line instead of plotting zero.
			if series.Employed[i] {
				data[i] = opts.LineData{Value: value}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}

		name := series.Name
		if name == "" {
			name = series.EmployeeID
		}

		line.AddSeries(name, data)
	}

	return line
}

func buildHeatmapChart(title string, heatmap *viewmodel.Heatmap) *charts.HeatMap {
	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: heatmap.Columns}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: heatmap.Rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        heatmapFloor(heatmap),
			Max:        heatmapCeiling(heatmap),
		}),
	)

	var data []opts.HeatMapData

	for r := range heatmap.Rows {
		for c := range heatmap.Columns {
			cell := heatmap.Cells[r][c]
			if !cell.Defined {
				continue
			}

			data = append(data, opts.HeatMapData{Value: []any{c, r, cell.Value}})
		}
	}

	chart.AddSeries(heatmap.Metric, data)

	return chart
}

func heatmapFloor(heatmap *viewmodel.Heatmap) float32 {
	floor, set := 0.0, false

	for _, row := range heatmap.Cells {
		for _, cell := range row {
			if cell.Defined && (!set || cell.Value < floor) {
				floor, set = cell.Value, true
			}
		}
	}

	return float32(floor)
}

func heatmapCeiling(heatmap *viewmodel.Heatmap) float32 {
	ceiling := 0.0

	for _, row := range heatmap.Cells {
		for _, cell := range row {
			if cell.Defined && cell.Value > ceiling {
				ceiling = cell.Value
			}
		}
	}

	return float32(ceiling)
}

// chartFor maps a chart-backed view model to its echarts chart. The
// HTML-only section types (stat summary, employee table) never reach
// this dispatch.
func chartFor(model viewmodel.ViewModel) (renderable, error) {
	switch model.Type {
	case viewmodel.SectionTrendChart:
		return buildTrendChart(model.Title, model.Trend), nil
	case viewmodel.SectionComparisonChart:
		return buildComparisonChart(model.Title, model.Comparison), nil
	case viewmodel.SectionTimeline:
		return buildTimelineChart(model.Title, model.Timeline), nil
	case viewmodel.SectionHeatmap:
		return buildHeatmapChart(model.Title, model.Heatmap), nil
	default:
		return nil, fmt.Errorf("no chart builder for section type %q", model.Type)
	}
}
