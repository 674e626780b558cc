package records

// Severity classifies a finding.
type Severity string

// Finding severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Finding categories emitted by this package and its collaborators.
const (
	CategoryTemporal          = "temporal-inconsistency"
	CategoryDuplicateID       = "duplicate-id"
	CategoryUnknownPosition   = "unknown-position"
	CategoryTeamNormalization = "team-normalization"
	CategoryOutOfRange        = "out-of-range"
	CategoryPostResignation   = "post-resignation-attendance"
	CategoryOrphanedRecord    = "orphaned-attendance"
	CategoryUnparseableDate   = "unparseable-date"
	CategoryUnknownStatus     = "unknown-status"
	CategoryMonthToken        = "unrecognized-month-token"
	CategoryMetricCalculation = "metric-calculation"
)

// Finding is one data-quality observation produced during loading or
// computation. Findings are first-class output: they are collected into
// the run bundle and surfaced through the data-errors view, never
// silently dropped.
type Finding struct {
	Severity    Severity       `json:"severity"               yaml:"severity"`
	Category    string         `json:"category"               yaml:"category"`
	Month       string         `json:"month,omitempty"        yaml:"month,omitempty"`
	EmployeeIDs []string       `json:"employee_ids,omitempty" yaml:"employee_ids,omitempty"`
	Description string         `json:"description"            yaml:"description"`
	Details     map[string]any `json:"details,omitempty"      yaml:"details,omitempty"`
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(findings))

	for _, f := range findings {
		counts[f.Severity]++
	}

	return counts
}
