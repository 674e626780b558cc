// Package records provides the per-month normalized view of raw employee
// and attendance rows, together with the validation findings produced
// while loading them. A Store is immutable once returned from Load.
package records

import (
	"time"

	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

// DateLayout is the wire format for all dates in the intermediate
// tabular form supplied by external loaders.
const DateLayout = "2006-01-02"

// Status classifies one attendance record.
type Status string

// Attendance status values.
const (
	StatusPresent      Status = "present"
	StatusAuthorized   Status = "authorized_absence"
	StatusUnauthorized Status = "unauthorized_absence"
	StatusHoliday      Status = "holiday"
	StatusUnknown      Status = "unknown"
)

// ParseStatus maps a raw status token to a Status. Unrecognized tokens
// map to StatusUnknown; the caller reports the finding.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusPresent, StatusAuthorized, StatusUnauthorized, StatusHoliday:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// Feedback is the most recent mentor assessment for an employee.
type Feedback string

// Mentor feedback values.
const (
	FeedbackPositive Feedback = "positive"
	FeedbackNeutral  Feedback = "neutral"
	FeedbackNegative Feedback = "negative"
	FeedbackNone     Feedback = ""
)

// RawEmployee is one employee row of the intermediate tabular form.
// Dates are strings in DateLayout; optional fields may be empty or nil.
type RawEmployee struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	Team            string   `json:"team"`
	JoinDate        string   `json:"join_date"`
	ResignationDate string   `json:"resignation_date,omitempty"`
	AssignmentDate  string   `json:"assignment_date,omitempty"`
	ManagerID       string   `json:"manager_id,omitempty"`
	AttendanceRate  *float64 `json:"attendance_rate,omitempty"`
	WorkingDays     *int     `json:"working_days,omitempty"`
	TrainingRate    *float64 `json:"training_rate,omitempty"`
	MentorFeedback  string   `json:"mentor_feedback,omitempty"`
}

// RawAttendance is one attendance row of the intermediate tabular form.
type RawAttendance struct {
	EmployeeID  string  `json:"employee_id"`
	WorkDate    string  `json:"work_date"`
	Status      string  `json:"status"`
	WorkedHours float64 `json:"worked_hours"`
	Reason      string  `json:"reason,omitempty"`
}

// EmployeeRecord is the normalized, immutable form of one employee for
// the month it was loaded in.
type EmployeeRecord struct {
	ID              string
	Name            string
	Position        string
	Team            string
	JoinDate        time.Time
	ResignationDate *time.Time
	AssignmentDate  *time.Time
	ManagerID       string
	TrainingRate    *float64
	MentorFeedback  Feedback
}

// TenureDaysAt returns whole days between the join date and ref.
// Negative when the join date is in the future relative to ref.
func (e *EmployeeRecord) TenureDaysAt(ref time.Time) int {
	return int(ref.Sub(e.JoinDate).Hours() / 24)
}

// ActiveIn reports whether the employee counts as active for month:
// joined by month end and not resigned before the month started.
func (e *EmployeeRecord) ActiveIn(month monthkey.Key) bool {
	if e.JoinDate.IsZero() || e.JoinDate.After(month.End()) {
		return false
	}

	return e.ResignationDate == nil || !e.ResignationDate.Before(month.Start())
}

// AttendanceRecord is the normalized form of one attendance row.
type AttendanceRecord struct {
	EmployeeID  string
	WorkDate    time.Time
	Status      Status
	WorkedHours float64
	Reason      string
}
