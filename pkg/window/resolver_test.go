package window_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/window"
)

var (
	windowStart = monthkey.Key{Year: 2025, Month: time.January}
	windowEnd   = monthkey.Key{Year: 2025, Month: time.September}
)

func sourceDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
	}

	return dir
}

func TestResolve_OrdersAndDeduplicates(t *testing.T) {
	t.Parallel()

	dir := sourceDir(t,
		"attendance_september.json",
		"attendance_july.json",
		"attendance_August.json",
		"attendance_extra_august.json", // duplicate month, deduplicated.
	)

	resolution, err := window.Resolve(dir, windowStart, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-07", "2025-08", "2025-09"}, monthkey.Strings(resolution.Keys))
	assert.Empty(t, resolution.Findings)
}

func TestResolve_UnrecognizedToken_ReportedNotFatal(t *testing.T) {
	t.Parallel()

	dir := sourceDir(t, "attendance_brumaire.json", "attendance_july.json")

	resolution, err := window.Resolve(dir, windowStart, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-07"}, monthkey.Strings(resolution.Keys))
	require.Len(t, resolution.Findings, 1)
	assert.Equal(t, records.CategoryMonthToken, resolution.Findings[0].Category)
}

func TestResolve_ExplicitYearToken(t *testing.T) {
	t.Parallel()

	dir := sourceDir(t, "attendance_december_2024.json", "attendance_july.json")

	resolution, err := window.Resolve(dir, monthkey.Key{Year: 2024, Month: time.January}, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-12", "2025-07"}, monthkey.Strings(resolution.Keys))
}

func TestResolve_YearInferredAcrossBoundary(t *testing.T) {
	t.Parallel()

	// Window ends in February 2025: "december" has a greater month
	// number than the end month, so it belongs to 2024.
	dir := sourceDir(t, "attendance_december.json", "attendance_january.json")

	end := monthkey.Key{Year: 2025, Month: time.February}

	resolution, err := window.Resolve(dir, monthkey.Key{Year: 2024, Month: time.January}, end, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-12", "2025-01"}, monthkey.Strings(resolution.Keys))
}

func TestResolve_BoundsApplied(t *testing.T) {
	t.Parallel()

	dir := sourceDir(t, "attendance_july.json", "attendance_august.json", "attendance_september.json")

	end := monthkey.Key{Year: 2025, Month: time.August}

	resolution, err := window.Resolve(dir, windowStart, end, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-07", "2025-08"}, monthkey.Strings(resolution.Keys))
}

func TestResolve_EmptyDirectory_ValidZeroMonthRun(t *testing.T) {
	t.Parallel()

	resolution, err := window.Resolve(t.TempDir(), windowStart, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Empty(t, resolution.Keys)
	assert.Empty(t, resolution.Findings)
}

func TestResolve_MissingDirectory_Fatal(t *testing.T) {
	t.Parallel()

	_, err := window.Resolve(filepath.Join(t.TempDir(), "missing"), windowStart, windowEnd, config.DefaultMonthNames())

	require.Error(t, err)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	dir := sourceDir(t, "a_july.json", "b_august.json", "c_september.json")

	first, err := window.Resolve(dir, windowStart, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	second, err := window.Resolve(dir, windowStart, windowEnd, config.DefaultMonthNames())
	require.NoError(t, err)

	assert.Equal(t, first.Keys, second.Keys)
	assert.Equal(t, first.Sources, second.Sources)
}
