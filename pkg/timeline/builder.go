// Package timeline assembles per-employee month-by-month attribute
// series from the loaded month stores. Timelines are built once per run,
// after all per-month computation, and are read-only afterward.
package timeline

import (
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
)

// MonthEntry is one employee's derived attributes for one month.
// Employed=false is the "absent from dataset" sentinel: consumers can
// tell "not employed this month" from "employed, zero absences".
type MonthEntry struct {
	Employed             bool             `json:"employed"                yaml:"employed"`
	AttendanceRate       float64          `json:"attendance_rate"         yaml:"attendance_rate"`
	WorkedHours          float64          `json:"worked_hours"            yaml:"worked_hours"`
	TenureDays           int              `json:"tenure_days"             yaml:"tenure_days"`
	PerfectAttendance    bool             `json:"perfect_attendance"      yaml:"perfect_attendance"`
	UnauthorizedAbsences int              `json:"unauthorized_absences"   yaml:"unauthorized_absences"`
	TrainingRate         *float64         `json:"training_rate,omitempty" yaml:"training_rate,omitempty"`
	MentorFeedback       records.Feedback `json:"mentor_feedback"         yaml:"mentor_feedback"`
}

// Timeline is one employee's mapping from month to derived attributes.
// Keys are canonical YYYY-MM strings so the structure serializes into
// the output bundle unchanged.
type Timeline struct {
	EmployeeID string                `json:"employee_id" yaml:"employee_id"`
	Months     map[string]MonthEntry `json:"months"      yaml:"months"`
}

// Entry returns the entry for a month. The zero entry (absent sentinel)
// is returned for months outside the built window.
func (t Timeline) Entry(key monthkey.Key) MonthEntry {
	return t.Months[key.String()]
}

// Build produces a timeline for every employee id observed in any
// month's store, covering every window month. Months where an employee
// has no record carry the absent sentinel.
func Build(window []monthkey.Key, stores map[monthkey.Key]*records.Store) map[string]Timeline {
	ids := collectIDs(window, stores)
	timelines := make(map[string]Timeline, len(ids))

	for _, id := range ids {
		months := make(map[string]MonthEntry, len(window))

		for _, key := range window {
			months[key.String()] = buildEntry(id, key, stores[key])
		}

		timelines[id] = Timeline{EmployeeID: id, Months: months}
	}

	return timelines
}

func collectIDs(window []monthkey.Key, stores map[monthkey.Key]*records.Store) []string {
	seen := make(map[string]bool)

	var ids []string

	for _, key := range window {
		store := stores[key]
		if store == nil {
			continue
		}

		for _, emp := range store.Employees() {
			if !seen[emp.ID] {
				seen[emp.ID] = true

				ids = append(ids, emp.ID)
			}
		}
	}

	return ids
}

func buildEntry(id string, key monthkey.Key, store *records.Store) MonthEntry {
	if store == nil {
		return MonthEntry{}
	}

	emp := store.Employee(id)
	if emp == nil {
		return MonthEntry{}
	}

	entry := MonthEntry{
		Employed:             true,
		AttendanceRate:       store.AttendanceRate(id),
		WorkedHours:          store.WorkedHours(id),
		PerfectAttendance:    store.PerfectAttendance(id),
		UnauthorizedAbsences: store.UnauthorizedCount(id),
		TrainingRate:         emp.TrainingRate,
		MentorFeedback:       emp.MentorFeedback,
	}

	if !emp.JoinDate.IsZero() {
		// Tenure is measured against the month snapshot date, not run
		// time, so historical reruns reproduce identical values.
		entry.TenureDays = emp.TenureDaysAt(key.End())
	}

	return entry
}
