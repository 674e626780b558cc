package kpi

import (
	"fmt"
	"math"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
)

const percentMultiplier = 100.0

// MetricMeta holds the descriptive metadata for one metric unit.
type MetricMeta struct {
	MetricName        string
	MetricDisplayName string
	MetricDescription string
}

// Name returns the machine-readable identifier.
func (m MetricMeta) Name() string { return m.MetricName }

// DisplayName returns a human-readable name for views.
func (m MetricMeta) DisplayName() string { return m.MetricDisplayName }

// Description returns the metric documentation.
func (m MetricMeta) Description() string { return m.MetricDescription }

// metricUnit is one self-contained metric computation over a single
// month's store. Units never look across months; averaging and trends
// belong to the aggregation index.
type metricUnit struct {
	MetricMeta

	compute func(in computeInput) float64
}

type computeInput struct {
	store        *records.Store
	month        monthkey.Key
	tenure       config.Tenure
	findingCount int
}

// Engine computes the fixed metric schema for one month at a time.
type Engine struct {
	tenure config.Tenure
	units  []metricUnit
}

// NewEngine creates an engine bound to the given tenure thresholds.
func NewEngine(tenure config.Tenure) *Engine {
	return &Engine{
		tenure: tenure,
		units:  schemaUnits(),
	}
}

// Compute builds the month's snapshot from the store. A failing unit
// degrades to zero and is reported as a metric-calculation finding; it
// never aborts the rest of the schema or other months.
func (e *Engine) Compute(store *records.Store, loadFindingCount int) (Snapshot, []records.Finding) {
	snapshot := Snapshot{
		Month:  store.Month().String(),
		Values: make(map[string]float64, len(e.units)),
	}

	input := computeInput{
		store:        store,
		month:        store.Month(),
		tenure:       e.tenure,
		findingCount: loadFindingCount,
	}

	var findings []records.Finding

	for _, unit := range e.units {
		value, unitErr := computeSafely(unit, input)
		if unitErr != nil {
			findings = append(findings, records.Finding{
				Severity:    records.SeverityWarning,
				Category:    records.CategoryMetricCalculation,
				Month:       snapshot.Month,
				Description: fmt.Sprintf("metric %s failed and was recorded as zero: %v", unit.Name(), unitErr),
				Details:     map[string]any{"metric": unit.Name()},
			})

			value = 0
		}

		snapshot.Values[unit.Name()] = value
	}

	return snapshot, findings
}

// computeSafely recovers a panicking metric unit into an error so a
// single bad computation cannot abort the month.
func computeSafely(unit metricUnit, input computeInput) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("metric %s panicked: %v", unit.Name(), r)
		}
	}()

	return unit.compute(input), nil
}

// round1 rounds a percentage to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// rate returns numerator/denominator as a percentage with one decimal.
// A zero denominator evaluates to 0, never NaN.
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}

	return round1(float64(numerator) / float64(denominator) * percentMultiplier)
}

func schemaUnits() []metricUnit {
	return []metricUnit{
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricTotalEmployees,
				MetricDisplayName: "Active Employees",
				MetricDescription: "Employees joined by month end and not resigned before the month started.",
			},
			compute: computeTotalEmployees,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricAbsenceRate,
				MetricDisplayName: "Absence Rate",
				MetricDescription: "Share of attendance records marked absent (authorized or not), as a percentage of the month's records.",
			},
			compute: computeAbsenceRate,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricUnauthorizedAbsenceRate,
				MetricDisplayName: "Unauthorized Absence Rate",
				MetricDescription: "Share of attendance records marked unauthorized absence.",
			},
			compute: computeUnauthorizedRate,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricResignationRate,
				MetricDisplayName: "Resignation Rate",
				MetricDescription: "Resignations effective this month as a percentage of active employees.",
			},
			compute: computeResignationRate,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricHires,
				MetricDisplayName: "Hires",
				MetricDescription: "Employees whose join date falls inside the month.",
			},
			compute: computeHires,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricResignations,
				MetricDisplayName: "Resignations",
				MetricDescription: "Employees whose resignation date falls inside the month.",
			},
			compute: computeResignations,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricEarlyTenureCount,
				MetricDisplayName: "Early Tenure",
				MetricDescription: "Active employees below the early-tenure day threshold as of month end.",
			},
			compute: computeEarlyTenure,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricPostAssignmentResigns,
				MetricDisplayName: "Post-Assignment Resignations",
				MetricDescription: "Resignations this month occurring within the post-assignment threshold of the role assignment (or join) date.",
			},
			compute: computePostAssignmentResigns,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricPerfectAttendanceCount,
				MetricDisplayName: "Perfect Attendance",
				MetricDescription: "Active employees with records and zero absences in the month.",
			},
			compute: computePerfectAttendance,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricLongTermCount,
				MetricDisplayName: "Long-Term Employees",
				MetricDescription: "Active employees at or above the long-term tenure threshold as of month end.",
			},
			compute: computeLongTerm,
		},
		{
			MetricMeta: MetricMeta{
				MetricName:        MetricDataErrorCount,
				MetricDisplayName: "Data Errors",
				MetricDescription: "Validation findings carried over from loading the month's records.",
			},
			compute: func(in computeInput) float64 { return float64(in.findingCount) },
		},
	}
}

func computeTotalEmployees(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if emp.ActiveIn(in.month) {
			count++
		}
	}

	return float64(count)
}

func absenceCounts(in computeInput) (absences, unauthorized, total int) {
	for _, emp := range in.store.Employees() {
		for _, rec := range in.store.Attendance(emp.ID) {
			total++

			switch rec.Status {
			case records.StatusAuthorized:
				absences++
			case records.StatusUnauthorized:
				absences++
				unauthorized++
			case records.StatusPresent, records.StatusHoliday, records.StatusUnknown:
			}
		}
	}

	return absences, unauthorized, total
}

func computeAbsenceRate(in computeInput) float64 {
	absences, _, total := absenceCounts(in)

	return rate(absences, total)
}

func computeUnauthorizedRate(in computeInput) float64 {
	_, unauthorized, total := absenceCounts(in)

	return rate(unauthorized, total)
}

func computeResignationRate(in computeInput) float64 {
	active := int(computeTotalEmployees(in))
	resigned := int(computeResignations(in))

	return rate(resigned, active)
}

func computeHires(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if !emp.JoinDate.IsZero() && in.month.Contains(emp.JoinDate) {
			count++
		}
	}

	return float64(count)
}

func computeResignations(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if emp.ResignationDate != nil && in.month.Contains(*emp.ResignationDate) {
			count++
		}
	}

	return float64(count)
}

func computeEarlyTenure(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if !emp.ActiveIn(in.month) || emp.JoinDate.IsZero() {
			continue
		}

		if emp.TenureDaysAt(in.month.End()) < in.tenure.EarlyDays {
			count++
		}
	}

	return float64(count)
}

func computePostAssignmentResigns(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if emp.ResignationDate == nil || !in.month.Contains(*emp.ResignationDate) {
			continue
		}

		reference := emp.JoinDate
		if emp.AssignmentDate != nil {
			reference = *emp.AssignmentDate
		}

		if reference.IsZero() {
			continue
		}

		days := int(emp.ResignationDate.Sub(reference).Hours() / 24)
		if days >= 0 && days < in.tenure.PostAssignmentDays {
			count++
		}
	}

	return float64(count)
}

func computePerfectAttendance(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if emp.ActiveIn(in.month) && in.store.PerfectAttendance(emp.ID) {
			count++
		}
	}

	return float64(count)
}

func computeLongTerm(in computeInput) float64 {
	count := 0

	for _, emp := range in.store.Employees() {
		if !emp.ActiveIn(in.month) || emp.JoinDate.IsZero() {
			continue
		}

		if emp.TenureDaysAt(in.month.End()) >= in.tenure.LongTermDays {
			count++
		}
	}

	return float64(count)
}
