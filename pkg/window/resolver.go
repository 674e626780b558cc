// Package window discovers which calendar months have backing source
// data. The resolved month sequence is the single source of truth for a
// run's time window; nothing downstream hardcodes months.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/hrpulse/hrpulse/pkg/config"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
)

// ErrUnrecognizedMonthToken marks a source file whose name encodes no
// known month. Non-fatal: the file is skipped and reported, other files
// still resolve.
var ErrUnrecognizedMonthToken = errors.New("window: unrecognized month token")

const yearTokenLen = 4

// Resolution is the outcome of month discovery.
type Resolution struct {
	// Keys is the deduplicated month sequence, ascending. Empty is a
	// valid zero-month run.
	Keys []monthkey.Key
	// Sources maps each resolved month to its backing file path.
	Sources map[monthkey.Key]string
	// Findings reports skipped files.
	Findings []records.Finding
}

// Resolve scans dir for month-encoded file names and returns the ordered
// window bounded by [start, end]. Rerunning against an unchanged
// directory yields an identical sequence.
func Resolve(dir string, start, end monthkey.Key, months config.MonthNames) (Resolution, error) {
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		return Resolution{}, fmt.Errorf("read source directory: %w", readErr)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	// Lexicographic file order makes dedup deterministic.
	sort.Strings(names)

	resolution := Resolution{Sources: make(map[monthkey.Key]string)}

	for _, name := range names {
		key, parseErr := keyFromFilename(name, end, months)
		if parseErr != nil {
			slog.Default().Warn("skipping source file", "file", name, "error", parseErr)

			resolution.Findings = append(resolution.Findings, records.Finding{
				Severity:    records.SeverityWarning,
				Category:    records.CategoryMonthToken,
				Description: fmt.Sprintf("source file %q has no recognizable month token", name),
				Details:     map[string]any{"file": name},
			})

			continue
		}

		if key.Before(start) || key.After(end) {
			continue
		}

		if _, dup := resolution.Sources[key]; dup {
			continue
		}

		resolution.Sources[key] = name
		resolution.Keys = append(resolution.Keys, key)
	}

	monthkey.Sort(resolution.Keys)

	return resolution, nil
}

// keyFromFilename extracts the month (and optional explicit year) token
// from a file name like "attendance_september_2025.json". Without a
// year token the year is inferred from the window end: month numbers
// after the end month belong to the previous year.
func keyFromFilename(name string, end monthkey.Key, months config.MonthNames) (monthkey.Key, error) {
	base := strings.TrimSuffix(name, extension(name))

	tokens := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var (
		month      time.Month
		monthFound bool
		year       int
	)

	for _, token := range tokens {
		if resolved, ok := months.Resolve(token); ok && !monthFound {
			month = resolved
			monthFound = true

			continue
		}

		if len(token) == yearTokenLen {
			if parsed, err := strconv.Atoi(token); err == nil {
				year = parsed
			}
		}
	}

	if !monthFound {
		return monthkey.Key{}, fmt.Errorf("%w: %q", ErrUnrecognizedMonthToken, name)
	}

	if year == 0 {
		year = end.Year
		if month > end.Month {
			year--
		}
	}

	return monthkey.Key{Year: year, Month: month}, nil
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}

	return name[idx:]
}
