package viewmodel

import (
	"sort"
	"strconv"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

// ViewModel is the renderer-agnostic output of one section: a type tag
// plus exactly one populated payload. No markup, no month lists beyond
// what the index resolved.
type ViewModel struct {
	Type       SectionType      `json:"type"`
	Title      string           `json:"title"`
	Stat       *StatSummary     `json:"stat,omitempty"`
	Trend      *TrendChart      `json:"trend,omitempty"`
	Comparison *ComparisonChart `json:"comparison,omitempty"`
	Table      *EmployeeTable   `json:"table,omitempty"`
	Timeline   *TimelineSeries  `json:"timeline,omitempty"`
	Heatmap    *Heatmap         `json:"heatmap,omitempty"`
}

// DeltaView is a display-ready month-over-month change. Percentage is
// formatted to one decimal and empty when undefined.
type DeltaView struct {
	Absolute   float64 `json:"absolute"`
	Percentage string  `json:"percentage,omitempty"`
}

// StatSummary is the current value of one metric with its delta and,
// optionally, award-tier counts.
type StatSummary struct {
	Metric     string                `json:"metric"`
	Value      float64               `json:"value"`
	Delta      *DeltaView            `json:"delta,omitempty"`
	TierCounts map[aggindex.Tier]int `json:"tier_counts,omitempty"`
}

// Series is one named value sequence aligned with a label axis.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// TrendChart is one or more metric series over the resolved window.
type TrendChart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// ComparisonChart compares teams on one per-employee metric for the
// target month.
type ComparisonChart struct {
	Metric string    `json:"metric"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Counts []int     `json:"counts"`
}

// EmployeeRow is one table row with the derived per-employee fields.
type EmployeeRow struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Team                 string            `json:"team"`
	Position             string            `json:"position"`
	TenureDays           int               `json:"tenure_days"`
	AttendanceRate       float64           `json:"attendance_rate"`
	UnauthorizedAbsences int               `json:"unauthorized_absences"`
	RiskScore            int               `json:"risk_score"`
	RiskBand             aggindex.RiskBand `json:"risk_band"`
	Tier                 aggindex.Tier     `json:"tier"`
}

// EmployeeTable is a filtered, optionally sorted employee listing.
type EmployeeTable struct {
	Columns []string      `json:"columns"`
	Rows    []EmployeeRow `json:"rows"`
}

// EmployeeSeries is one employee's per-month values for one metric.
// Employed mirrors Values: a false entry means "absent from dataset",
// not "zero activity".
type EmployeeSeries struct {
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Values     []float64 `json:"values"`
	Employed   []bool    `json:"employed"`
}

// TimelineSeries is a per-employee metric over the resolved window.
type TimelineSeries struct {
	Metric string           `json:"metric"`
	Labels []string         `json:"labels"`
	Series []EmployeeSeries `json:"series"`
}

// HeatmapCell is one team-month value. Defined is false for months
// where the team has no active members.
type HeatmapCell struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Heatmap is a team-by-month grid of team averages for one metric.
type Heatmap struct {
	Metric  string          `json:"metric"`
	Rows    []string        `json:"rows"`
	Columns []string        `json:"columns"`
	Cells   [][]HeatmapCell `json:"cells"`
}

const percentageDecimals = 1

func materializeStatSummary(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) ViewModel {
	metric := snapshotMetrics(cfg)[0]

	stat := &StatSummary{Metric: metric}

	if snapshot, ok := index.Snapshot(target); ok {
		stat.Value = snapshot.Value(metric)
	}

	if delta, defined := index.MonthOverMonthDelta(metric, target); defined {
		view := &DeltaView{Absolute: delta.Absolute}

		if delta.PercentageDefined {
			view.Percentage = strconv.FormatFloat(delta.Percentage, 'f', percentageDecimals, 64)
		}

		stat.Delta = view
	}

	if cfg.Options.ShowTiers {
		stat.TierCounts = index.TierCounts(target)
	}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Stat: stat}
}

func materializeTrendChart(cfg SectionConfig, index *aggindex.Index, _ monthkey.Key) ViewModel {
	names := snapshotMetrics(cfg)

	trend := &TrendChart{
		Labels: monthkey.Strings(index.Window()),
		Series: make([]Series, 0, len(names)),
	}

	for _, name := range names {
		trend.Series = append(trend.Series, Series{Name: name, Values: index.Trend(name)})
	}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Trend: trend}
}

func materializeComparisonChart(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) ViewModel {
	stats := index.TeamAggregate(cfg.EmployeeMetric, target)

	comparison := &ComparisonChart{
		Metric: cfg.EmployeeMetric,
		Labels: make([]string, 0, len(stats)),
		Values: make([]float64, 0, len(stats)),
		Counts: make([]int, 0, len(stats)),
	}

	for _, stat := range stats {
		comparison.Labels = append(comparison.Labels, stat.Team)
		comparison.Values = append(comparison.Values, stat.Average)
		comparison.Counts = append(comparison.Counts, stat.Count)
	}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Comparison: comparison}
}

// employeeTableColumns is the fixed column order of employee tables.
func employeeTableColumns() []string {
	return []string{
		"id", "name", "team", "position", "tenure_days",
		"attendance_rate", "unauthorized_absences", "risk_score", "risk_band", "tier",
	}
}

func materializeEmployeeTable(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) ViewModel {
	ids := index.Filter(target, optionPredicates(cfg.Options, index, target)...)
	rows := make([]EmployeeRow, 0, len(ids))

	for _, id := range ids {
		rows = append(rows, buildRow(id, index, target))
	}

	if cfg.EmployeeMetric != "" {
		sortRows(rows, cfg.EmployeeMetric, index, target)
	}

	if cfg.Options.Limit > 0 && len(rows) > cfg.Options.Limit {
		rows = rows[:cfg.Options.Limit]
	}

	table := &EmployeeTable{Columns: employeeTableColumns(), Rows: rows}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Table: table}
}

func materializeTimeline(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) ViewModel {
	ids := index.Filter(target, optionPredicates(cfg.Options, index, target)...)

	if cfg.Options.Limit > 0 && len(ids) > cfg.Options.Limit {
		ids = ids[:cfg.Options.Limit]
	}

	window := index.Window()

	timeline := &TimelineSeries{
		Metric: cfg.EmployeeMetric,
		Labels: monthkey.Strings(window),
		Series: make([]EmployeeSeries, 0, len(ids)),
	}

	for _, id := range ids {
		series := EmployeeSeries{
			EmployeeID: id,
			Values:     make([]float64, len(window)),
			Employed:   make([]bool, len(window)),
		}

		if emp, ok := index.Employee(id, target); ok {
			series.Name = emp.Name
		}

		for i, key := range window {
			series.Values[i], series.Employed[i] = index.EmployeeMetric(cfg.EmployeeMetric, id, key)
		}

		timeline.Series = append(timeline.Series, series)
	}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Timeline: timeline}
}

func materializeHeatmap(cfg SectionConfig, index *aggindex.Index, _ monthkey.Key) ViewModel {
	window := index.Window()
	perMonth := make([]map[string]aggindex.TeamStat, len(window))
	teams := make(map[string]bool)

	for i, key := range window {
		perMonth[i] = make(map[string]aggindex.TeamStat)

		for _, stat := range index.TeamAggregate(cfg.EmployeeMetric, key) {
			perMonth[i][stat.Team] = stat
			teams[stat.Team] = true
		}
	}

	rows := make([]string, 0, len(teams))
	for team := range teams {
		rows = append(rows, team)
	}

	sort.Strings(rows)

	heatmap := &Heatmap{
		Metric:  cfg.EmployeeMetric,
		Rows:    rows,
		Columns: monthkey.Strings(window),
		Cells:   make([][]HeatmapCell, len(rows)),
	}

	for r, team := range rows {
		heatmap.Cells[r] = make([]HeatmapCell, len(window))

		for c := range window {
			if stat, ok := perMonth[c][team]; ok {
				heatmap.Cells[r][c] = HeatmapCell{Value: stat.Average, Defined: true}
			}
		}
	}

	return ViewModel{Type: cfg.Type, Title: cfg.Title, Heatmap: heatmap}
}

// optionPredicates translates declarative display options into index
// predicates.
func optionPredicates(opts SectionOptions, index *aggindex.Index, target monthkey.Key) []aggindex.Predicate {
	var predicates []aggindex.Predicate

	if opts.Team != "" {
		predicates = append(predicates, aggindex.ByTeam(opts.Team))
	}

	if opts.Tier != "" {
		predicates = append(predicates, index.ByTier(aggindex.Tier(opts.Tier), target))
	}

	if opts.RiskBand != "" {
		predicates = append(predicates, index.ByRiskBand(aggindex.RiskBand(opts.RiskBand), target))
	}

	return predicates
}

func buildRow(id string, index *aggindex.Index, target monthkey.Key) EmployeeRow {
	row := EmployeeRow{ID: id}

	if emp, ok := index.Employee(id, target); ok {
		row.Name = emp.Name
		row.Team = emp.Team
		row.Position = emp.Position
	}

	if tl, ok := index.Timeline(id); ok {
		entry := tl.Entry(target)
		row.TenureDays = entry.TenureDays
		row.AttendanceRate = entry.AttendanceRate
		row.UnauthorizedAbsences = entry.UnauthorizedAbsences
	}

	row.RiskScore = index.RiskScore(id, target)
	row.RiskBand = aggindex.BandForScore(row.RiskScore)
	row.Tier = index.TenureAwardTier(id, target)

	return row
}

// sortRows orders rows by the configured metric, descending, with id as
// the deterministic tiebreak.
func sortRows(rows []EmployeeRow, metric string, index *aggindex.Index, target monthkey.Key) {
	value := func(row EmployeeRow) float64 {
		v, _ := index.EmployeeMetric(metric, row.ID, target)

		return v
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := value(rows[i]), value(rows[j])
		if vi != vj {
			return vi > vj
		}

		return rows[i].ID < rows[j].ID
	})
}
