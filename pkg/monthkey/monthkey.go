// Package monthkey provides the ordered calendar-month identifier used to
// key every per-month artifact of a generation run. The set of known keys
// is always discovered from source data, never hardcoded.
package monthkey

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidKey indicates a string that does not parse as YYYY-MM.
var ErrInvalidKey = errors.New("monthkey: invalid month key")

const (
	monthsPerYear = 12
	keyParts      = 2
)

// Key identifies one calendar month of data.
type Key struct {
	Year  int        `json:"year"  yaml:"year"`
	Month time.Month `json:"month" yaml:"month"`
}

// New creates a Key, normalizing month overflow (e.g. month 13 becomes
// January of the following year).
func New(year int, month time.Month) Key {
	for month > time.December {
		month -= monthsPerYear
		year++
	}

	for month < time.January {
		month += monthsPerYear
		year--
	}

	return Key{Year: year, Month: month}
}

// Parse converts a YYYY-MM string into a Key.
func Parse(s string) (Key, error) {
	parts := strings.SplitN(s, "-", keyParts)
	if len(parts) != keyParts {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	year, yearErr := strconv.Atoi(parts[0])
	if yearErr != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	month, monthErr := strconv.Atoi(parts[1])
	if monthErr != nil || month < 1 || month > monthsPerYear {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	return Key{Year: year, Month: time.Month(month)}, nil
}

// String returns the canonical YYYY-MM form, locale independent.
func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Compare orders keys chronologically: negative when k precedes other.
func (k Key) Compare(other Key) int {
	if k.Year != other.Year {
		return k.Year - other.Year
	}

	return int(k.Month) - int(other.Month)
}

// Before reports whether k is strictly earlier than other.
func (k Key) Before(other Key) bool {
	return k.Compare(other) < 0
}

// After reports whether k is strictly later than other.
func (k Key) After(other Key) bool {
	return k.Compare(other) > 0
}

// Next returns the following calendar month.
func (k Key) Next() Key {
	return New(k.Year, k.Month+1)
}

// Start returns midnight UTC on the first day of the month.
func (k Key) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month. This is the
// snapshot date for tenure computation, so reruns for a historical month
// reproduce identical values.
func (k Key) End() time.Time {
	return k.Next().Start().AddDate(0, 0, -1)
}

// Contains reports whether t falls inside the month.
func (k Key) Contains(t time.Time) bool {
	return !t.Before(k.Start()) && t.Before(k.Next().Start())
}

// BusinessDays counts the Monday-Friday days in the month. Used as the
// ceiling when validating reported working-day counts.
func (k Key) BusinessDays() int {
	count := 0

	for day := k.Start(); day.Month() == k.Month; day = day.AddDate(0, 0, 1) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			count++
		}
	}

	return count
}

// Sort orders keys ascending in place.
func Sort(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})
}

// Strings converts an ordered key sequence into its serialized form for
// the output bundle.
func Strings(keys []Key) []string {
	out := make([]string, len(keys))

	for i, k := range keys {
		out[i] = k.String()
	}

	return out
}
