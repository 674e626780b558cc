package load_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/load"
)

func writeMonthFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "attendance_september.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadMonthFile_DecodesRows(t *testing.T) {
	t.Parallel()

	path := writeMonthFile(t, `{
		"employees": [
			{"id": "E1", "name": "Mori", "position": "Operator", "team": "Quality", "join_date": "2024-01-01"}
		],
		"attendance": [
			{"employee_id": "E1", "work_date": "2025-09-01", "status": "present", "worked_hours": 8}
		]
	}`)

	file, err := load.ReadMonthFile(path)
	require.NoError(t, err)

	require.Len(t, file.Employees, 1)
	assert.Equal(t, "E1", file.Employees[0].ID)
	assert.Equal(t, "Quality", file.Employees[0].Team)

	require.Len(t, file.Attendance, 1)
	assert.Equal(t, "present", file.Attendance[0].Status)
	assert.InDelta(t, 8.0, file.Attendance[0].WorkedHours, 0.001)
}

func TestReadMonthFile_MissingFile_Fatal(t *testing.T) {
	t.Parallel()

	_, err := load.ReadMonthFile(filepath.Join(t.TempDir(), "absent.json"))

	require.ErrorIs(t, err, load.ErrDataLoad)
}

func TestReadMonthFile_MalformedJSON_Fatal(t *testing.T) {
	t.Parallel()

	_, err := load.ReadMonthFile(writeMonthFile(t, `{"employees": [`))

	require.ErrorIs(t, err, load.ErrDataLoad)
}

func TestReadMonthFile_SchemaViolation_Fatal(t *testing.T) {
	t.Parallel()

	// Employee rows without an id are structurally invalid.
	_, err := load.ReadMonthFile(writeMonthFile(t, `{
		"employees": [{"name": "Anonymous"}],
		"attendance": []
	}`))

	require.ErrorIs(t, err, load.ErrDataLoad)
}

func TestReadMonthFile_EmptyRowSets_Valid(t *testing.T) {
	t.Parallel()

	file, err := load.ReadMonthFile(writeMonthFile(t, `{"employees": [], "attendance": []}`))
	require.NoError(t, err)

	assert.Empty(t, file.Employees)
	assert.Empty(t, file.Attendance)
}
