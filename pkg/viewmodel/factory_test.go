package viewmodel_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/kpi"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/timeline"
	"github.com/hrpulse/hrpulse/pkg/viewmodel"
)

var (
	august    = monthkey.Key{Year: 2025, Month: time.August}
	september = monthkey.Key{Year: 2025, Month: time.September}
)

func rawEmployee(id, team, joinDate string) records.RawEmployee {
	return records.RawEmployee{
		ID:       id,
		Name:     "Employee " + id,
		Position: "Operator",
		Team:     team,
		JoinDate: joinDate,
	}
}

// twoMonthIndex builds an index over August and September from raw rows,
// with the Logistics team present only in August.
func twoMonthIndex(t *testing.T) *aggindex.Index {
	t.Helper()

	policy := config.Default()
	window := []monthkey.Key{august, september}

	logistics := rawEmployee("E3", "Logistics", "2015-03-01")
	logistics.ResignationDate = "2025-08-31"

	augustRows := []records.RawEmployee{
		rawEmployee("E1", "Quality", "2024-01-01"),
		rawEmployee("E2", "Quality", "2024-06-01"),
		logistics,
	}
	septemberRows := []records.RawEmployee{
		rawEmployee("E1", "Quality", "2024-01-01"),
		rawEmployee("E2", "Quality", "2024-06-01"),
	}

	attendance := map[monthkey.Key][]records.RawAttendance{
		august: {
			{EmployeeID: "E1", WorkDate: "2025-08-01", Status: "present", WorkedHours: 8},
			{EmployeeID: "E2", WorkDate: "2025-08-01", Status: "unauthorized_absence"},
			{EmployeeID: "E3", WorkDate: "2025-08-01", Status: "present", WorkedHours: 8},
		},
		september: {
			{EmployeeID: "E1", WorkDate: "2025-09-01", Status: "present", WorkedHours: 8},
			{EmployeeID: "E2", WorkDate: "2025-09-01", Status: "present", WorkedHours: 8},
		},
	}

	rows := map[monthkey.Key][]records.RawEmployee{august: augustRows, september: septemberRows}
	stores := make(map[monthkey.Key]*records.Store, len(window))
	snapshots := make([]kpi.Snapshot, 0, len(window))
	engine := kpi.NewEngine(policy.Tenure)

	for _, key := range window {
		store, _ := records.Load(key, rows[key], attendance[key], policy.Vocab)
		stores[key] = store

		snapshot, _ := engine.Compute(store, 0)
		snapshots = append(snapshots, snapshot)
	}

	timelines := timeline.Build(window, stores)

	return aggindex.New(window, snapshots, timelines, stores, policy.Tiers, policy.Risk)
}

func TestNewFactory_DefaultTableValid(t *testing.T) {
	t.Parallel()

	factory, err := viewmodel.NewFactory(viewmodel.DefaultTable())
	require.NoError(t, err)

	assert.Len(t, factory.KPIs(), 11)
}

func TestNewFactory_UnknownType_FailsAtConstruction(t *testing.T) {
	t.Parallel()

	table := []viewmodel.KPIConfig{{
		ID: "broken",
		Sections: []viewmodel.SectionConfig{
			{Type: viewmodel.SectionStatSummary, Metric: kpi.MetricHires},
			{Type: "gauge", Metric: kpi.MetricHires},
		},
	}}

	_, err := viewmodel.NewFactory(table)
	require.Error(t, err)

	var cfgErr *viewmodel.ConfigurationError

	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken", cfgErr.KPI)
	assert.Equal(t, 1, cfgErr.Section)
}

func TestNewFactory_UnknownMetric_FailsAtConstruction(t *testing.T) {
	t.Parallel()

	table := []viewmodel.KPIConfig{{
		ID: "broken",
		Sections: []viewmodel.SectionConfig{
			{Type: viewmodel.SectionTrendChart, Metric: "head_count"},
		},
	}}

	_, err := viewmodel.NewFactory(table)

	var cfgErr *viewmodel.ConfigurationError

	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, cfgErr.Section)
}

func TestNewFactory_MissingMetricKey_FailsAtConstruction(t *testing.T) {
	t.Parallel()

	table := []viewmodel.KPIConfig{{
		ID:       "broken",
		Sections: []viewmodel.SectionConfig{{Type: viewmodel.SectionStatSummary}},
	}}

	_, err := viewmodel.NewFactory(table)

	var cfgErr *viewmodel.ConfigurationError

	require.ErrorAs(t, err, &cfgErr)
}

func newFactory(t *testing.T, table []viewmodel.KPIConfig) *viewmodel.Factory {
	t.Helper()

	factory, err := viewmodel.NewFactory(table)
	require.NoError(t, err)

	return factory
}

func TestMaterialize_StatSummaryWithDelta(t *testing.T) {
	t.Parallel()

	policy := config.Default()
	index := aggindex.New(
		[]monthkey.Key{august, september},
		[]kpi.Snapshot{
			{Month: "2025-08", Values: map[string]float64{kpi.MetricTotalEmployees: 381}},
			{Month: "2025-09", Values: map[string]float64{kpi.MetricTotalEmployees: 393}},
		},
		nil, nil, policy.Tiers, policy.Risk)

	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:   viewmodel.SectionStatSummary,
		Title:  "Headcount",
		Metric: kpi.MetricTotalEmployees,
	}, index, september)
	require.NoError(t, err)

	require.NotNil(t, model.Stat)
	assert.InDelta(t, 393.0, model.Stat.Value, 0.001)
	require.NotNil(t, model.Stat.Delta)
	assert.InDelta(t, 12.0, model.Stat.Delta.Absolute, 0.001)
	assert.Equal(t, "3.1", model.Stat.Delta.Percentage)
}

func TestMaterialize_TrendChartSpansWindow(t *testing.T) {
	t.Parallel()

	index := twoMonthIndex(t)
	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:    viewmodel.SectionTrendChart,
		Metrics: []string{kpi.MetricTotalEmployees, kpi.MetricHires},
	}, index, september)
	require.NoError(t, err)

	require.NotNil(t, model.Trend)
	assert.Equal(t, []string{"2025-08", "2025-09"}, model.Trend.Labels)
	require.Len(t, model.Trend.Series, 2)
	assert.Len(t, model.Trend.Series[0].Values, 2)
}

func TestMaterialize_ComparisonChartGroupsTeams(t *testing.T) {
	t.Parallel()

	index := twoMonthIndex(t)
	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:           viewmodel.SectionComparisonChart,
		EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
	}, index, august)
	require.NoError(t, err)

	require.NotNil(t, model.Comparison)
	assert.Equal(t, []string{"Logistics", "Quality"}, model.Comparison.Labels)
	assert.Equal(t, []int{1, 2}, model.Comparison.Counts)
}

func TestMaterialize_EmployeeTableSortedAndLimited(t *testing.T) {
	t.Parallel()

	index := twoMonthIndex(t)
	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:           viewmodel.SectionEmployeeTable,
		EmployeeMetric: aggindex.EmployeeMetricTenureDays,
		Options:        viewmodel.SectionOptions{Limit: 2},
	}, index, august)
	require.NoError(t, err)

	require.NotNil(t, model.Table)
	require.Len(t, model.Table.Rows, 2)
	// E3 joined 2015, the longest tenure; E1 next.
	assert.Equal(t, "E3", model.Table.Rows[0].ID)
	assert.Equal(t, "E1", model.Table.Rows[1].ID)
	assert.Equal(t, aggindex.TierPlatinum, model.Table.Rows[0].Tier)
}

func TestMaterialize_TimelineCarriesAbsentSentinel(t *testing.T) {
	t.Parallel()

	index := twoMonthIndex(t)
	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:           viewmodel.SectionTimeline,
		EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
		Options:        viewmodel.SectionOptions{Team: "Logistics"},
	}, index, august)
	require.NoError(t, err)

	require.NotNil(t, model.Timeline)
	require.Len(t, model.Timeline.Series, 1)

	series := model.Timeline.Series[0]
	assert.Equal(t, "E3", series.EmployeeID)
	// Employed in August, absent from the September dataset.
	assert.Equal(t, []bool{true, false}, series.Employed)
}

func TestMaterialize_HeatmapMarksUndefinedCells(t *testing.T) {
	t.Parallel()

	index := twoMonthIndex(t)
	factory := newFactory(t, viewmodel.DefaultTable())

	model, err := factory.Materialize(viewmodel.SectionConfig{
		Type:           viewmodel.SectionHeatmap,
		EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
	}, index, september)
	require.NoError(t, err)

	require.NotNil(t, model.Heatmap)
	assert.Equal(t, []string{"Logistics", "Quality"}, model.Heatmap.Rows)
	assert.Equal(t, []string{"2025-08", "2025-09"}, model.Heatmap.Columns)

	logistics := model.Heatmap.Cells[0]
	assert.True(t, logistics[0].Defined)
	assert.False(t, logistics[1].Defined, "no Logistics members in September")
}

func TestMaterializeKPI_TwelfthEntryNeedsNoNewCode(t *testing.T) {
	t.Parallel()

	table := append(viewmodel.DefaultTable(), viewmodel.KPIConfig{
		ID:    "overtime-watch",
		Title: "Overtime Watch",
		Sections: []viewmodel.SectionConfig{
			{Type: viewmodel.SectionStatSummary, Title: "Headcount", Metric: kpi.MetricTotalEmployees},
			{
				Type: viewmodel.SectionEmployeeTable, Title: "Longest Hours",
				EmployeeMetric: aggindex.EmployeeMetricWorkedHours,
			},
			{
				Type: viewmodel.SectionHeatmap, Title: "Hours by Team",
				EmployeeMetric: aggindex.EmployeeMetricWorkedHours,
			},
		},
	})

	factory := newFactory(t, table)
	index := twoMonthIndex(t)

	models, err := factory.MaterializeKPI("overtime-watch", index, september)
	require.NoError(t, err)

	require.Len(t, models, 3)
	assert.NotNil(t, models[0].Stat)
	assert.NotNil(t, models[1].Table)
	assert.NotNil(t, models[2].Heatmap)
}

func TestMaterializeKPI_UnknownID(t *testing.T) {
	t.Parallel()

	factory := newFactory(t, viewmodel.DefaultTable())

	_, err := factory.MaterializeKPI("nope", twoMonthIndex(t), september)

	require.Error(t, err)
}

func TestLoadTable_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kpis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: headcount
  title: Headcount
  sections:
    - type: stat_summary
      title: Current
      metric: total_employees
    - type: trend_chart
      title: Trend
      metric: total_employees
`), 0o600))

	table, err := viewmodel.LoadTable(path)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.Equal(t, "headcount", table[0].ID)
	require.Len(t, table[0].Sections, 2)
	assert.Equal(t, viewmodel.SectionTrendChart, table[0].Sections[1].Type)

	_, err = viewmodel.NewFactory(table)
	require.NoError(t, err)
}
