// Package aggindex provides the read-only query facade over the per-month
// metric snapshots and the per-employee timelines of one generation run.
// The index is built once, after all per-month computation, and never
// mutates its inputs; it is safe to share across concurrent readers.
package aggindex

import (
	"math"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/kpi"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/timeline"
)

// Index is the immutable aggregation facade.
type Index struct {
	window    []monthkey.Key
	snapshots map[string]kpi.Snapshot
	timelines map[string]timeline.Timeline
	stores    map[monthkey.Key]*records.Store
	tiers     config.TierPolicy
	risk      config.RiskPolicy
}

// New builds an index over the run outputs. Snapshots are keyed by the
// same canonical month identifiers as the window.
func New(
	window []monthkey.Key,
	snapshots []kpi.Snapshot,
	timelines map[string]timeline.Timeline,
	stores map[monthkey.Key]*records.Store,
	tiers config.TierPolicy,
	risk config.RiskPolicy,
) *Index {
	byMonth := make(map[string]kpi.Snapshot, len(snapshots))

	for _, snapshot := range snapshots {
		byMonth[snapshot.Month] = snapshot
	}

	return &Index{
		window:    window,
		snapshots: byMonth,
		timelines: timelines,
		stores:    stores,
		tiers:     tiers,
		risk:      risk,
	}
}

// Window returns the resolved months in ascending order.
func (ix *Index) Window() []monthkey.Key {
	return ix.window
}

// Timeline returns the timeline for an employee id.
func (ix *Index) Timeline(id string) (timeline.Timeline, bool) {
	tl, ok := ix.timelines[id]

	return tl, ok
}

// Employee returns the employee record loaded for the target month,
// false when the month or the employee is absent.
func (ix *Index) Employee(id string, target monthkey.Key) (*records.EmployeeRecord, bool) {
	store := ix.store(target)
	if store == nil {
		return nil, false
	}

	emp := store.Employee(id)
	if emp == nil {
		return nil, false
	}

	return emp, true
}

// Timelines returns every employee timeline keyed by id. The map is
// shared, not copied; callers must treat it as read-only.
func (ix *Index) Timelines() map[string]timeline.Timeline {
	return ix.timelines
}

// Snapshot returns the metric snapshot for a month.
func (ix *Index) Snapshot(key monthkey.Key) (kpi.Snapshot, bool) {
	snapshot, ok := ix.snapshots[key.String()]

	return snapshot, ok
}

// Trend returns one value per window month, in window order. The length
// always equals the window length; months without a snapshot contribute
// zero (the schema guarantees no holes for computed months).
func (ix *Index) Trend(metric string) []float64 {
	values := make([]float64, len(ix.window))

	for i, key := range ix.window {
		if snapshot, ok := ix.snapshots[key.String()]; ok {
			values[i] = snapshot.Value(metric)
		}
	}

	return values
}

// Delta is a month-over-month change. Percentage is only meaningful when
// PercentageDefined is true (the previous value was non-zero).
type Delta struct {
	Absolute          float64 `json:"absolute"`
	Percentage        float64 `json:"percentage"`
	PercentageDefined bool    `json:"percentage_defined"`
}

// MonthOverMonthDelta returns the change of a metric at target relative
// to the preceding window month. The second return is false exactly when
// target is the first window month or not in the window at all. Sign
// convention is current minus previous.
func (ix *Index) MonthOverMonthDelta(metric string, target monthkey.Key) (Delta, bool) {
	pos := ix.position(target)
	if pos <= 0 {
		return Delta{}, false
	}

	current := ix.Trend(metric)[pos]
	previous := ix.Trend(metric)[pos-1]

	delta := Delta{Absolute: current - previous}

	if previous != 0 {
		delta.Percentage = math.Round(delta.Absolute/previous*1000) / 10
		delta.PercentageDefined = true
	}

	return delta, true
}

func (ix *Index) position(target monthkey.Key) int {
	for i, key := range ix.window {
		if key == target {
			return i
		}
	}

	return -1
}

func (ix *Index) store(target monthkey.Key) *records.Store {
	return ix.stores[target]
}
