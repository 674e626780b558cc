package aggindex

import (
	"strings"

	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/timeline"
)

// Predicate is a pure, side-effect-free condition over one employee's
// record for the target month and their full timeline.
type Predicate func(record *records.EmployeeRecord, tl timeline.Timeline) bool

// Filter returns the ids of the target month's employees matching every
// predicate, in id order. With no predicates it returns all ids.
func (ix *Index) Filter(target monthkey.Key, predicates ...Predicate) []string {
	store := ix.store(target)
	if store == nil {
		return nil
	}

	var ids []string

	for _, emp := range store.Employees() {
		tl := ix.timelines[emp.ID]

		if matchesAll(emp, tl, predicates) {
			ids = append(ids, emp.ID)
		}
	}

	return ids
}

func matchesAll(record *records.EmployeeRecord, tl timeline.Timeline, predicates []Predicate) bool {
	for _, pred := range predicates {
		if !pred(record, tl) {
			return false
		}
	}

	return true
}

// And composes predicates conjunctively.
func And(predicates ...Predicate) Predicate {
	return func(record *records.EmployeeRecord, tl timeline.Timeline) bool {
		return matchesAll(record, tl, predicates)
	}
}

// ByTeam matches employees on a canonical team name.
func ByTeam(team string) Predicate {
	return func(record *records.EmployeeRecord, _ timeline.Timeline) bool {
		return record.Team == team
	}
}

// BySearch matches a case-insensitive substring of name or id.
func BySearch(query string) Predicate {
	query = strings.ToLower(query)

	return func(record *records.EmployeeRecord, _ timeline.Timeline) bool {
		return strings.Contains(strings.ToLower(record.Name), query) ||
			strings.Contains(strings.ToLower(record.ID), query)
	}
}

// ByTier matches employees in a given award tier for the target month.
func (ix *Index) ByTier(tier Tier, target monthkey.Key) Predicate {
	return func(record *records.EmployeeRecord, _ timeline.Timeline) bool {
		return ix.TenureAwardTier(record.ID, target) == tier
	}
}

// ByRiskBand matches employees whose risk score falls in band for the
// target month.
func (ix *Index) ByRiskBand(band RiskBand, target monthkey.Key) Predicate {
	return func(record *records.EmployeeRecord, _ timeline.Timeline) bool {
		return BandForScore(ix.RiskScore(record.ID, target)) == band
	}
}
