// Package load reads the intermediate tabular row files produced by the
// external spreadsheet converter. Files are validated against a JSON
// schema before decoding; a structurally unreadable file is fatal for
// the run, per the no-fake-data rule.
package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hrpulse/hrpulse/pkg/records"
)

// ErrDataLoad marks fatal input problems: a required file is missing,
// unreadable, or fails schema validation. The run aborts; no partial or
// fabricated output is emitted in its place.
var ErrDataLoad = errors.New("load: data load error")

// monthFileSchema is the structural contract for one month's row file.
const monthFileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["employees", "attendance"],
  "properties": {
    "employees": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "position", "team", "join_date"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "position": {"type": "string"},
          "team": {"type": "string"},
          "join_date": {"type": "string"},
          "resignation_date": {"type": "string"},
          "assignment_date": {"type": "string"},
          "manager_id": {"type": "string"},
          "attendance_rate": {"type": "number"},
          "working_days": {"type": "integer"},
          "training_rate": {"type": "number"},
          "mentor_feedback": {"type": "string"}
        }
      }
    },
    "attendance": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["employee_id", "work_date", "status"],
        "properties": {
          "employee_id": {"type": "string", "minLength": 1},
          "work_date": {"type": "string"},
          "status": {"type": "string"},
          "worked_hours": {"type": "number"},
          "reason": {"type": "string"}
        }
      }
    }
  }
}`

// MonthFile holds one month's raw rows.
type MonthFile struct {
	Employees  []records.RawEmployee   `json:"employees"`
	Attendance []records.RawAttendance `json:"attendance"`
}

// ReadMonthFile loads and validates one month's row file.
func ReadMonthFile(path string) (*MonthFile, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDataLoad, path, readErr)
	}

	validateErr := validateAgainstSchema(data, path)
	if validateErr != nil {
		return nil, validateErr
	}

	var file MonthFile

	decodeErr := json.Unmarshal(data, &file)
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrDataLoad, path, decodeErr)
	}

	return &file, nil
}

func validateAgainstSchema(data []byte, path string) error {
	result, schemaErr := gojsonschema.Validate(
		gojsonschema.NewStringLoader(monthFileSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if schemaErr != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %w", ErrDataLoad, path, schemaErr)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))

		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s failed schema validation: %s", ErrDataLoad, path, strings.Join(problems, "; "))
	}

	return nil
}
