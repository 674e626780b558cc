package records

import (
	"fmt"
	"sort"
	"time"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

const maxRatePercent = 100.0

// Store is the normalized, in-memory view of one month's rows. It is
// internally consistent: every attendance record resolves to a loaded
// employee, and nothing mutates after Load returns.
type Store struct {
	month      monthkey.Key
	employees  map[string]*EmployeeRecord
	order      []string
	attendance map[string][]AttendanceRecord
}

// Load normalizes raw rows into a Store and reports every validation
// problem as a Finding. Records with invalid dates stay in the store;
// only orphaned attendance rows are dropped (and reported).
func Load(
	month monthkey.Key,
	employees []RawEmployee,
	attendance []RawAttendance,
	vocab config.Vocabulary,
) (*Store, []Finding) {
	store := &Store{
		month:      month,
		employees:  make(map[string]*EmployeeRecord, len(employees)),
		attendance: make(map[string][]AttendanceRecord),
	}

	var findings []Finding

	for _, row := range employees {
		findings = append(findings, store.loadEmployee(row, vocab)...)
	}

	sort.Strings(store.order)

	for _, row := range attendance {
		findings = append(findings, store.loadAttendance(row)...)
	}

	for i := range findings {
		findings[i].Month = month.String()
	}

	return store, findings
}

func (s *Store) loadEmployee(row RawEmployee, vocab config.Vocabulary) []Finding {
	if _, exists := s.employees[row.ID]; exists {
		return []Finding{{
			Severity:    SeverityCritical,
			Category:    CategoryDuplicateID,
			EmployeeIDs: []string{row.ID},
			Description: fmt.Sprintf("employee id %s appears more than once in the month snapshot", row.ID),
		}}
	}

	record, findings := s.normalizeEmployee(row, vocab)

	s.employees[row.ID] = record
	s.order = append(s.order, row.ID)

	return findings
}

func (s *Store) normalizeEmployee(row RawEmployee, vocab config.Vocabulary) (*EmployeeRecord, []Finding) {
	var findings []Finding

	record := &EmployeeRecord{
		ID:             row.ID,
		Name:           row.Name,
		Position:       row.Position,
		Team:           row.Team,
		ManagerID:      row.ManagerID,
		TrainingRate:   row.TrainingRate,
		MentorFeedback: Feedback(row.MentorFeedback),
	}

	record.JoinDate, findings = parseRequiredDate(row.JoinDate, "join_date", row.ID, findings)
	record.ResignationDate, findings = parseOptionalDate(row.ResignationDate, "resignation_date", row.ID, findings)
	record.AssignmentDate, findings = parseOptionalDate(row.AssignmentDate, "assignment_date", row.ID, findings)

	findings = append(findings, s.checkTemporal(record)...)
	findings = append(findings, checkPosition(record, vocab)...)

	record.Team, findings = normalizeTeam(record.Team, row.ID, vocab, findings)

	findings = append(findings, s.checkReportedValues(row)...)

	return record, findings
}

func parseRequiredDate(raw, field, id string, findings []Finding) (time.Time, []Finding) {
	if raw == "" {
		return time.Time{}, append(findings, dateFinding(SeverityCritical, field, raw, id))
	}

	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, append(findings, dateFinding(SeverityCritical, field, raw, id))
	}

	return parsed, findings
}

func parseOptionalDate(raw, field, id string, findings []Finding) (*time.Time, []Finding) {
	if raw == "" {
		return nil, findings
	}

	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, append(findings, dateFinding(SeverityWarning, field, raw, id))
	}

	return &parsed, findings
}

func dateFinding(severity Severity, field, raw, id string) Finding {
	return Finding{
		Severity:    severity,
		Category:    CategoryUnparseableDate,
		EmployeeIDs: []string{id},
		Description: fmt.Sprintf("employee %s has unparseable %s %q", id, field, raw),
		Details:     map[string]any{"field": field, "value": raw},
	}
}

func (s *Store) checkTemporal(record *EmployeeRecord) []Finding {
	var findings []Finding

	addTemporal := func(description string, details map[string]any) {
		findings = append(findings, Finding{
			Severity:    SeverityCritical,
			Category:    CategoryTemporal,
			EmployeeIDs: []string{record.ID},
			Description: description,
			Details:     details,
		})
	}

	if record.ResignationDate != nil && !record.JoinDate.IsZero() &&
		record.ResignationDate.Before(record.JoinDate) {
		addTemporal(
			fmt.Sprintf("employee %s resignation date precedes join date", record.ID),
			map[string]any{
				"join_date":        record.JoinDate.Format(DateLayout),
				"resignation_date": record.ResignationDate.Format(DateLayout),
			})
	}

	if record.AssignmentDate != nil && !record.JoinDate.IsZero() &&
		record.AssignmentDate.Before(record.JoinDate) {
		addTemporal(
			fmt.Sprintf("employee %s assignment date precedes join date", record.ID),
			map[string]any{
				"join_date":       record.JoinDate.Format(DateLayout),
				"assignment_date": record.AssignmentDate.Format(DateLayout),
			})
	}

	if !record.JoinDate.IsZero() && record.JoinDate.After(s.month.End()) {
		addTemporal(
			fmt.Sprintf("employee %s join date is in the future relative to %s", record.ID, s.month),
			map[string]any{"join_date": record.JoinDate.Format(DateLayout)})
	}

	return findings
}

func checkPosition(record *EmployeeRecord, vocab config.Vocabulary) []Finding {
	if record.Position == "" || !vocab.KnownPosition(record.Position) {
		return []Finding{{
			Severity:    SeverityWarning,
			Category:    CategoryUnknownPosition,
			EmployeeIDs: []string{record.ID},
			Description: fmt.Sprintf("employee %s has position %q outside the known vocabulary", record.ID, record.Position),
			Details:     map[string]any{"position": record.Position},
		}}
	}

	return nil
}

func normalizeTeam(team, id string, vocab config.Vocabulary, findings []Finding) (string, []Finding) {
	if team == "" {
		return team, append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryTeamNormalization,
			EmployeeIDs: []string{id},
			Description: fmt.Sprintf("employee %s has no team assigned", id),
		})
	}

	canonical, wasSynonym := vocab.CanonicalTeam(team)
	if wasSynonym {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryTeamNormalization,
			EmployeeIDs: []string{id},
			Description: fmt.Sprintf("employee %s team %q normalized to %q", id, team, canonical),
			Details:     map[string]any{"raw": team, "canonical": canonical},
		})
	}

	return canonical, findings
}

func (s *Store) checkReportedValues(row RawEmployee) []Finding {
	var findings []Finding

	if row.AttendanceRate != nil && (*row.AttendanceRate < 0 || *row.AttendanceRate > maxRatePercent) {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryOutOfRange,
			EmployeeIDs: []string{row.ID},
			Description: fmt.Sprintf("employee %s reported attendance rate %.1f outside [0, 100]", row.ID, *row.AttendanceRate),
			Details:     map[string]any{"attendance_rate": *row.AttendanceRate},
		})
	}

	if row.WorkingDays != nil && *row.WorkingDays > s.month.BusinessDays() {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryOutOfRange,
			EmployeeIDs: []string{row.ID},
			Description: fmt.Sprintf("employee %s reported %d working days, above the %d business days of %s",
				row.ID, *row.WorkingDays, s.month.BusinessDays(), s.month),
			Details:     map[string]any{"working_days": *row.WorkingDays, "ceiling": s.month.BusinessDays()},
		})
	}

	return findings
}

func (s *Store) loadAttendance(row RawAttendance) []Finding {
	var findings []Finding

	employee, ok := s.employees[row.EmployeeID]
	if !ok {
		// Never joined to the wrong employee: drop and report.
		return []Finding{{
			Severity:    SeverityWarning,
			Category:    CategoryOrphanedRecord,
			EmployeeIDs: []string{row.EmployeeID},
			Description: fmt.Sprintf("attendance row references unknown employee id %s", row.EmployeeID),
			Details:     map[string]any{"work_date": row.WorkDate},
		}}
	}

	record := AttendanceRecord{
		EmployeeID:  row.EmployeeID,
		WorkedHours: row.WorkedHours,
		Reason:      row.Reason,
		Status:      ParseStatus(row.Status),
	}

	if record.Status == StatusUnknown {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryUnknownStatus,
			EmployeeIDs: []string{row.EmployeeID},
			Description: fmt.Sprintf("attendance row for employee %s has unknown status %q", row.EmployeeID, row.Status),
			Details:     map[string]any{"status": row.Status},
		})
	}

	workDate, err := time.Parse(DateLayout, row.WorkDate)
	if err != nil {
		findings = append(findings, dateFinding(SeverityWarning, "work_date", row.WorkDate, row.EmployeeID))
	}

	record.WorkDate = workDate

	if row.WorkedHours < 0 {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryOutOfRange,
			EmployeeIDs: []string{row.EmployeeID},
			Description: fmt.Sprintf("attendance row for employee %s has negative worked time %.1f", row.EmployeeID, row.WorkedHours),
			Details:     map[string]any{"worked_hours": row.WorkedHours},
		})
	}

	if employee.ResignationDate != nil && !workDate.IsZero() && workDate.After(*employee.ResignationDate) {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Category:    CategoryPostResignation,
			EmployeeIDs: []string{row.EmployeeID},
			Description: fmt.Sprintf("attendance recorded for employee %s after resignation date", row.EmployeeID),
			Details: map[string]any{
				"work_date":        row.WorkDate,
				"resignation_date": employee.ResignationDate.Format(DateLayout),
			},
		})
	}

	s.attendance[row.EmployeeID] = append(s.attendance[row.EmployeeID], record)

	return findings
}

// Month returns the month this store was loaded for.
func (s *Store) Month() monthkey.Key {
	return s.month
}

// Employee returns the record for id, or nil.
func (s *Store) Employee(id string) *EmployeeRecord {
	return s.employees[id]
}

// Employees returns all records ordered by id.
func (s *Store) Employees() []*EmployeeRecord {
	out := make([]*EmployeeRecord, 0, len(s.order))

	for _, id := range s.order {
		out = append(out, s.employees[id])
	}

	return out
}

// Attendance returns the attendance records for one employee.
func (s *Store) Attendance(id string) []AttendanceRecord {
	return s.attendance[id]
}

// AttendanceTotal returns the number of attendance records in the month.
func (s *Store) AttendanceTotal() int {
	total := 0

	for _, recs := range s.attendance {
		total += len(recs)
	}

	return total
}

// AttendanceRate returns the percentage of an employee's attendance
// records with status present. Zero records yields 0.
func (s *Store) AttendanceRate(id string) float64 {
	recs := s.attendance[id]
	if len(recs) == 0 {
		return 0
	}

	present := 0

	for _, rec := range recs {
		if rec.Status == StatusPresent {
			present++
		}
	}

	return float64(present) / float64(len(recs)) * maxRatePercent
}

// UnauthorizedCount returns the number of unauthorized absences for one
// employee in the month.
func (s *Store) UnauthorizedCount(id string) int {
	count := 0

	for _, rec := range s.attendance[id] {
		if rec.Status == StatusUnauthorized {
			count++
		}
	}

	return count
}

// WorkedHours sums worked time over the employee's attendance records.
func (s *Store) WorkedHours(id string) float64 {
	total := 0.0

	for _, rec := range s.attendance[id] {
		total += rec.WorkedHours
	}

	return total
}

// PerfectAttendance reports whether the employee has at least one
// attendance record and no absences of any kind in the month.
func (s *Store) PerfectAttendance(id string) bool {
	recs := s.attendance[id]
	if len(recs) == 0 {
		return false
	}

	for _, rec := range recs {
		if rec.Status == StatusAuthorized || rec.Status == StatusUnauthorized {
			return false
		}
	}

	return true
}
