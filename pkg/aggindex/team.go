package aggindex

import (
	"sort"

	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

// Per-employee metric names accepted by TeamAggregate and the employee
// table views. These are derived from timelines, not from the month
// snapshot schema.
const (
	EmployeeMetricAttendanceRate = "attendance_rate"
	EmployeeMetricWorkedHours    = "worked_hours"
	EmployeeMetricUnauthorized   = "unauthorized_absences"
	EmployeeMetricTenureDays     = "tenure_days"
	EmployeeMetricTrainingRate   = "training_rate"
	EmployeeMetricRiskScore      = "risk_score"
)

// EmployeeMetricNames lists the per-employee metrics in canonical order.
func EmployeeMetricNames() []string {
	return []string{
		EmployeeMetricAttendanceRate,
		EmployeeMetricWorkedHours,
		EmployeeMetricUnauthorized,
		EmployeeMetricTenureDays,
		EmployeeMetricTrainingRate,
		EmployeeMetricRiskScore,
	}
}

// KnownEmployeeMetric reports whether name is a per-employee metric.
func KnownEmployeeMetric(name string) bool {
	for _, known := range EmployeeMetricNames() {
		if known == name {
			return true
		}
	}

	return false
}

// TeamStat is one team's aggregate for a per-employee metric.
type TeamStat struct {
	Team    string  `json:"team"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// TeamAggregate groups employees by their team attribute as of target
// and averages the given per-employee metric. Teams with zero members in
// the target month are omitted, never emitted as zero entries. The
// result is sorted by team name for deterministic output.
func (ix *Index) TeamAggregate(metric string, target monthkey.Key) []TeamStat {
	store := ix.store(target)
	if store == nil {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, emp := range store.Employees() {
		if !emp.ActiveIn(target) || emp.Team == "" {
			continue
		}

		value, ok := ix.EmployeeMetric(metric, emp.ID, target)
		if !ok {
			continue
		}

		sums[emp.Team] += value
		counts[emp.Team]++
	}

	stats := make([]TeamStat, 0, len(counts))

	for team, count := range counts {
		stats = append(stats, TeamStat{
			Team:    team,
			Average: sums[team] / float64(count),
			Count:   count,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Team < stats[j].Team
	})

	return stats
}

// EmployeeMetric evaluates one per-employee metric for target. The
// second return is false when the employee has no data for the month
// (absent sentinel, or a metric whose input is missing).
func (ix *Index) EmployeeMetric(metric, id string, target monthkey.Key) (float64, bool) {
	tl, ok := ix.timelines[id]
	if !ok {
		return 0, false
	}

	entry := tl.Entry(target)
	if !entry.Employed {
		return 0, false
	}

	switch metric {
	case EmployeeMetricAttendanceRate:
		return entry.AttendanceRate, true
	case EmployeeMetricWorkedHours:
		return entry.WorkedHours, true
	case EmployeeMetricUnauthorized:
		return float64(entry.UnauthorizedAbsences), true
	case EmployeeMetricTenureDays:
		return float64(entry.TenureDays), true
	case EmployeeMetricTrainingRate:
		if entry.TrainingRate == nil {
			return 0, false
		}

		return *entry.TrainingRate, true
	case EmployeeMetricRiskScore:
		return float64(ix.RiskScore(id, target)), true
	default:
		return 0, false
	}
}
