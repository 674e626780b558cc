package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/cmd/hrpulse/commands"
	"github.com/hrpulse/hrpulse/pkg/bundle"
	"github.com/hrpulse/hrpulse/pkg/kpi"
)

const augustRows = `{
	"employees": [
		{"id": "E1", "name": "Mori", "position": "Operator", "team": "Quality", "join_date": "2024-01-01"},
		{"id": "E2", "name": "Sato", "position": "Operator", "team": "Quality", "join_date": "2024-06-01"}
	],
	"attendance": [
		{"employee_id": "E1", "work_date": "2025-08-01", "status": "present", "worked_hours": 8},
		{"employee_id": "E2", "work_date": "2025-08-01", "status": "unauthorized_absence"}
	]
}`

const septemberRows = `{
	"employees": [
		{"id": "E1", "name": "Mori", "position": "Operator", "team": "Quality", "join_date": "2024-01-01"},
		{"id": "E2", "name": "Sato", "position": "Operator", "team": "Quality", "join_date": "2024-06-01"},
		{"id": "E3", "name": "Abe", "position": "Operator", "team": "Quality", "join_date": "2025-09-01"}
	],
	"attendance": [
		{"employee_id": "E1", "work_date": "2025-09-01", "status": "present", "worked_hours": 8}
	]
}`

func writeSources(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance_august.json"), []byte(augustRows), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance_september.json"), []byte(septemberRows), 0o600))

	return dir
}

func runGenerate(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewGenerateCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestGenerate_WritesBundleAndDashboard(t *testing.T) {
	sourceDir := writeSources(t)
	outputDir := t.TempDir()

	out, err := runGenerate(t,
		"--source", sourceDir,
		"--output", outputDir,
		"--month", "2025-09",
		"--no-color",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Aggregation window ending 2025-09: 2 month(s)")

	b, readErr := bundle.Read(filepath.Join(outputDir, "run.json"), bundle.NewJSONCodec())
	require.NoError(t, readErr)

	assert.Equal(t, []string{"2025-08", "2025-09"}, b.Months)

	september, ok := b.Snapshot("2025-09")
	require.True(t, ok)
	assert.InDelta(t, 3.0, september.Value(kpi.MetricTotalEmployees), 0.001)
	assert.InDelta(t, 1.0, september.Value(kpi.MetricHires), 0.001)

	dashboard, statErr := os.ReadFile(filepath.Join(outputDir, "dashboard.html"))
	require.NoError(t, statErr)
	assert.Contains(t, string(dashboard), "HR KPI Dashboard 2025-09")
	assert.Contains(t, string(dashboard), "total-employees")
}

func TestGenerate_LZ4Format(t *testing.T) {
	sourceDir := writeSources(t)
	outputDir := t.TempDir()

	_, err := runGenerate(t,
		"--source", sourceDir,
		"--output", outputDir,
		"--month", "2025-09",
		"--format", "json.lz4",
		"--no-color",
	)
	require.NoError(t, err)

	b, readErr := bundle.Read(
		filepath.Join(outputDir, "run.json.lz4"), bundle.NewLZ4Codec(bundle.NewJSONCodec()))
	require.NoError(t, readErr)

	assert.Len(t, b.Months, 2)
}

func TestGenerate_UnknownFormat(t *testing.T) {
	_, err := runGenerate(t,
		"--source", writeSources(t),
		"--format", "xml",
	)

	require.ErrorIs(t, err, commands.ErrUnknownFormat)
}

func TestGenerate_BadKPITable_FailsBeforeOutput(t *testing.T) {
	sourceDir := writeSources(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	tablePath := filepath.Join(t.TempDir(), "kpis.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte(`
- id: broken
  sections:
    - type: gauge
      metric: total_employees
`), 0o600))

	_, err := runGenerate(t,
		"--source", sourceDir,
		"--output", outputDir,
		"--month", "2025-09",
		"--kpi-table", tablePath,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "no partial output on configuration errors")
}

func TestGenerate_MissingSourceDir_Fatal(t *testing.T) {
	_, err := runGenerate(t,
		"--source", filepath.Join(t.TempDir(), "missing"),
		"--month", "2025-09",
	)

	require.Error(t, err)
}

func TestGenerate_DefaultsToLatestResolvedMonth(t *testing.T) {
	sourceDir := writeSources(t)
	outputDir := t.TempDir()

	// Without --month the target comes from the latest resolved month,
	// whatever the wall clock says.
	out, err := runGenerate(t,
		"--source", sourceDir,
		"--output", outputDir,
		"--no-color",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Aggregation window ending")

	_, statErr := os.Stat(filepath.Join(outputDir, "run.json"))
	require.NoError(t, statErr)
}
