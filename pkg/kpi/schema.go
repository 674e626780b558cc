// Package kpi computes the fixed per-month metric schema. Metric names
// are the stable contract every downstream consumer keys on: a snapshot
// always carries every name, defaulting to zero rather than omitting, so
// cross-month trend arrays never contain holes.
package kpi

// Metric names of the fixed schema.
const (
	MetricTotalEmployees          = "total_employees"
	MetricAbsenceRate             = "absence_rate"
	MetricUnauthorizedAbsenceRate = "unauthorized_absence_rate"
	MetricResignationRate         = "resignation_rate"
	MetricHires                   = "hires"
	MetricResignations            = "resignations"
	MetricEarlyTenureCount        = "early_tenure_count"
	MetricPostAssignmentResigns   = "post_assignment_resignations"
	MetricPerfectAttendanceCount  = "perfect_attendance_count"
	MetricLongTermCount           = "long_term_count"
	MetricDataErrorCount          = "data_error_count"
)

// SchemaNames returns every metric name in canonical order.
func SchemaNames() []string {
	return []string{
		MetricTotalEmployees,
		MetricAbsenceRate,
		MetricUnauthorizedAbsenceRate,
		MetricResignationRate,
		MetricHires,
		MetricResignations,
		MetricEarlyTenureCount,
		MetricPostAssignmentResigns,
		MetricPerfectAttendanceCount,
		MetricLongTermCount,
		MetricDataErrorCount,
	}
}

// KnownMetric reports whether name is part of the schema.
func KnownMetric(name string) bool {
	for _, known := range SchemaNames() {
		if known == name {
			return true
		}
	}

	return false
}

// Snapshot holds one month's computed metric values. Immutable once
// built; every schema name is present.
type Snapshot struct {
	Month  string             `json:"month"  yaml:"month"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

// Value returns the metric value, zero for names outside the schema.
func (s Snapshot) Value(name string) float64 {
	return s.Values[name]
}
