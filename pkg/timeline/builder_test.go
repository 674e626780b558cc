package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/timeline"
)

var (
	august    = monthkey.Key{Year: 2025, Month: time.August}
	september = monthkey.Key{Year: 2025, Month: time.September}
)

func loadMonth(t *testing.T, key monthkey.Key, employees []records.RawEmployee, attendance []records.RawAttendance) *records.Store {
	t.Helper()

	store, _ := records.Load(key, employees, attendance, config.Default().Vocab)

	return store
}

func TestBuild_CoversEveryWindowMonth(t *testing.T) {
	t.Parallel()

	window := []monthkey.Key{august, september}

	stores := map[monthkey.Key]*records.Store{
		august: loadMonth(t, august, []records.RawEmployee{
			{ID: "E1", Name: "A", Position: "Operator", Team: "Quality", JoinDate: "2025-06-01"},
		}, nil),
		september: loadMonth(t, september, []records.RawEmployee{
			{ID: "E1", Name: "A", Position: "Operator", Team: "Quality", JoinDate: "2025-06-01"},
			{ID: "E2", Name: "B", Position: "Operator", Team: "Quality", JoinDate: "2025-09-01"},
		}, nil),
	}

	timelines := timeline.Build(window, stores)

	require.Len(t, timelines, 2)
	assert.Len(t, timelines["E1"].Months, 2)
	assert.Len(t, timelines["E2"].Months, 2)
}

func TestBuild_AbsentSentinelDistinctFromZeroActivity(t *testing.T) {
	t.Parallel()

	window := []monthkey.Key{august, september}

	stores := map[monthkey.Key]*records.Store{
		august: loadMonth(t, august, nil, nil),
		september: loadMonth(t, september, []records.RawEmployee{
			{ID: "E1", Name: "A", Position: "Operator", Team: "Quality", JoinDate: "2025-09-01"},
		}, nil),
	}

	timelines := timeline.Build(window, stores)

	augustEntry := timelines["E1"].Entry(august)
	septemberEntry := timelines["E1"].Entry(september)

	assert.False(t, augustEntry.Employed, "no record in August means absent from dataset")
	assert.True(t, septemberEntry.Employed)
	assert.Zero(t, septemberEntry.UnauthorizedAbsences, "employed with zero activity is not the sentinel")
}

func TestBuild_TenureRelativeToMonthEnd(t *testing.T) {
	t.Parallel()

	window := []monthkey.Key{august, september}

	rows := []records.RawEmployee{
		{ID: "E1", Name: "A", Position: "Operator", Team: "Quality", JoinDate: "2025-08-01"},
	}

	stores := map[monthkey.Key]*records.Store{
		august:    loadMonth(t, august, rows, nil),
		september: loadMonth(t, september, rows, nil),
	}

	timelines := timeline.Build(window, stores)

	assert.Equal(t, 30, timelines["E1"].Entry(august).TenureDays)
	assert.Equal(t, 60, timelines["E1"].Entry(september).TenureDays)
}

func TestBuild_AttendanceDerivations(t *testing.T) {
	t.Parallel()

	window := []monthkey.Key{september}

	stores := map[monthkey.Key]*records.Store{
		september: loadMonth(t, september,
			[]records.RawEmployee{
				{ID: "E1", Name: "A", Position: "Operator", Team: "Quality", JoinDate: "2025-01-01"},
			},
			[]records.RawAttendance{
				{EmployeeID: "E1", WorkDate: "2025-09-01", Status: "present", WorkedHours: 8},
				{EmployeeID: "E1", WorkDate: "2025-09-02", Status: "unauthorized_absence"},
			}),
	}

	entry := timeline.Build(window, stores)["E1"].Entry(september)

	assert.InDelta(t, 50.0, entry.AttendanceRate, 0.001)
	assert.InDelta(t, 8.0, entry.WorkedHours, 0.001)
	assert.Equal(t, 1, entry.UnauthorizedAbsences)
	assert.False(t, entry.PerfectAttendance)
}

func TestBuild_EmptyWindow(t *testing.T) {
	t.Parallel()

	timelines := timeline.Build(nil, nil)

	assert.Empty(t, timelines)
}
