package viewmodel

import (
	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/kpi"
)

// Table row caps for the default views.
const (
	defaultTableLimit    = 50
	defaultTimelineLimit = 25
)

// DefaultTable returns the built-in KPI table: eleven views assembled
// from the six section types. Deployments override it with a YAML table
// via LoadTable.
func DefaultTable() []KPIConfig {
	return []KPIConfig{
		{
			ID:    "total-employees",
			Title: "Total Employees",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Headcount", Metric: kpi.MetricTotalEmployees},
				{Type: SectionTrendChart, Title: "Headcount Trend", Metric: kpi.MetricTotalEmployees},
			},
		},
		{
			ID:    "absence-rate",
			Title: "Absence Rate",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Absence Rate", Metric: kpi.MetricAbsenceRate},
				{
					Type: SectionTrendChart, Title: "Absence Rates Trend",
					Metrics: []string{kpi.MetricAbsenceRate, kpi.MetricUnauthorizedAbsenceRate},
				},
				{
					Type: SectionComparisonChart, Title: "Attendance by Team",
					EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
				},
				{
					Type: SectionHeatmap, Title: "Attendance Heatmap",
					EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
				},
			},
		},
		{
			ID:    "unauthorized-absence-rate",
			Title: "Unauthorized Absence Rate",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Unauthorized Absence Rate", Metric: kpi.MetricUnauthorizedAbsenceRate},
				{Type: SectionTrendChart, Title: "Unauthorized Absence Trend", Metric: kpi.MetricUnauthorizedAbsenceRate},
				{
					Type: SectionEmployeeTable, Title: "Employees with Unauthorized Absences",
					EmployeeMetric: aggindex.EmployeeMetricUnauthorized,
					Options:        SectionOptions{Limit: defaultTableLimit},
				},
			},
		},
		{
			ID:    "resignation-rate",
			Title: "Resignation Rate",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Resignation Rate", Metric: kpi.MetricResignationRate},
				{Type: SectionTrendChart, Title: "Resignation Rate Trend", Metric: kpi.MetricResignationRate},
			},
		},
		{
			ID:    "hires",
			Title: "Hires",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Hires This Month", Metric: kpi.MetricHires},
				{
					Type: SectionTrendChart, Title: "Hires vs Resignations",
					Metrics: []string{kpi.MetricHires, kpi.MetricResignations},
				},
			},
		},
		{
			ID:    "resignations",
			Title: "Resignations",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Resignations This Month", Metric: kpi.MetricResignations},
				{Type: SectionTrendChart, Title: "Resignations Trend", Metric: kpi.MetricResignations},
			},
		},
		{
			ID:    "early-tenure",
			Title: "Early Tenure",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Employees in Early Tenure", Metric: kpi.MetricEarlyTenureCount},
				{
					Type: SectionEmployeeTable, Title: "Newest Employees",
					EmployeeMetric: aggindex.EmployeeMetricTenureDays,
					Options:        SectionOptions{Tier: string(aggindex.TierNone), Limit: defaultTableLimit},
				},
			},
		},
		{
			ID:    "post-assignment-resignations",
			Title: "Post-Assignment Resignations",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Post-Assignment Resignations", Metric: kpi.MetricPostAssignmentResigns},
				{Type: SectionTrendChart, Title: "Post-Assignment Resignations Trend", Metric: kpi.MetricPostAssignmentResigns},
				{
					Type: SectionEmployeeTable, Title: "High-Risk Employees",
					EmployeeMetric: aggindex.EmployeeMetricRiskScore,
					Options:        SectionOptions{RiskBand: string(aggindex.RiskBandHigh), Limit: defaultTableLimit},
				},
			},
		},
		{
			ID:    "perfect-attendance",
			Title: "Perfect Attendance",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Perfect Attendance Count", Metric: kpi.MetricPerfectAttendanceCount},
				{Type: SectionTrendChart, Title: "Perfect Attendance Trend", Metric: kpi.MetricPerfectAttendanceCount},
				{
					Type: SectionTimeline, Title: "Attendance Timelines",
					EmployeeMetric: aggindex.EmployeeMetricAttendanceRate,
					Options:        SectionOptions{Limit: defaultTimelineLimit},
				},
			},
		},
		{
			ID:    "long-term",
			Title: "Long-Term Employees",
			Sections: []SectionConfig{
				{
					Type: SectionStatSummary, Title: "Long-Term Employees",
					Metric:  kpi.MetricLongTermCount,
					Options: SectionOptions{ShowTiers: true},
				},
				{
					Type: SectionEmployeeTable, Title: "Longest Tenure",
					EmployeeMetric: aggindex.EmployeeMetricTenureDays,
					Options:        SectionOptions{Limit: defaultTableLimit},
				},
			},
		},
		{
			ID:    "data-errors",
			Title: "Data Errors",
			Sections: []SectionConfig{
				{Type: SectionStatSummary, Title: "Data Errors This Month", Metric: kpi.MetricDataErrorCount},
				{Type: SectionTrendChart, Title: "Data Errors Trend", Metric: kpi.MetricDataErrorCount},
			},
		},
	}
}
