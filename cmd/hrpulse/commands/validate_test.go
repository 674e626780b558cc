package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/cmd/hrpulse/commands"
)

func runValidate(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewValidateCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestValidate_CleanSources(t *testing.T) {
	out, err := runValidate(t, "--source", writeSources(t), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "KPI configuration is valid")
	assert.Contains(t, out, "Resolved 2 month(s)")
	assert.Contains(t, out, "attendance_august.json ok")
}

func TestValidate_ReportsCriticalFindings(t *testing.T) {
	dir := t.TempDir()

	// Resignation before join date: reported as critical, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance_september.json"), []byte(`{
		"employees": [
			{"id": "E1", "name": "Mori", "position": "Operator", "team": "Quality",
			 "join_date": "2024-06-01", "resignation_date": "2024-01-01"}
		],
		"attendance": []
	}`), 0o600))

	out, err := runValidate(t, "--source", dir, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "1 critical")
	assert.Contains(t, out, "temporal-inconsistency")
}

func TestValidate_SchemaViolation_Errors(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance_september.json"),
		[]byte(`{"employees": [{"name": "no id"}], "attendance": []}`), 0o600))

	_, err := runValidate(t, "--source", dir, "--no-color")

	require.Error(t, err)
}

func TestValidate_BadKPITable(t *testing.T) {
	tablePath := filepath.Join(t.TempDir(), "kpis.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte(`
- id: broken
  sections:
    - type: stat_summary
`), 0o600))

	_, err := runValidate(t, "--source", writeSources(t), "--kpi-table", tablePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}
