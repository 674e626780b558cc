package monthkey_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	key, err := monthkey.Parse("2025-09")
	require.NoError(t, err)

	assert.Equal(t, 2025, key.Year)
	assert.Equal(t, time.September, key.Month)
	assert.Equal(t, "2025-09", key.String())
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := []string{"", "2025", "2025-13", "2025-00", "abcd-09", "2025-xx"}

	for _, input := range cases {
		_, err := monthkey.Parse(input)
		require.ErrorIs(t, err, monthkey.ErrInvalidKey, "input %q", input)
	}
}

func TestNew_NormalizesOverflow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, monthkey.Key{Year: 2026, Month: time.January}, monthkey.New(2025, time.December+1))
	assert.Equal(t, monthkey.Key{Year: 2024, Month: time.December}, monthkey.New(2025, 0))
}

func TestCompare_Ordering(t *testing.T) {
	t.Parallel()

	july := monthkey.Key{Year: 2025, Month: time.July}
	september := monthkey.Key{Year: 2025, Month: time.September}
	janNext := monthkey.Key{Year: 2026, Month: time.January}

	assert.True(t, july.Before(september))
	assert.True(t, september.Before(janNext))
	assert.True(t, janNext.After(july))
	assert.Equal(t, 0, july.Compare(july))
}

func TestEnd_IsLastDayOfMonth(t *testing.T) {
	t.Parallel()

	february := monthkey.Key{Year: 2024, Month: time.February}

	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), february.End())
	assert.Equal(t, time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC),
		monthkey.Key{Year: 2025, Month: time.September}.End())
}

func TestContains(t *testing.T) {
	t.Parallel()

	september := monthkey.Key{Year: 2025, Month: time.September}

	assert.True(t, september.Contains(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, september.Contains(time.Date(2025, time.September, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, september.Contains(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBusinessDays(t *testing.T) {
	t.Parallel()

	// September 2025 starts on a Monday and has 22 weekdays.
	assert.Equal(t, 22, monthkey.Key{Year: 2025, Month: time.September}.BusinessDays())
	// February 2025 has exactly four full weeks.
	assert.Equal(t, 20, monthkey.Key{Year: 2025, Month: time.February}.BusinessDays())
}

func TestSort_And_Strings(t *testing.T) {
	t.Parallel()

	keys := []monthkey.Key{
		{Year: 2025, Month: time.September},
		{Year: 2025, Month: time.July},
		{Year: 2025, Month: time.August},
	}

	monthkey.Sort(keys)

	assert.Equal(t, []string{"2025-07", "2025-08", "2025-09"}, monthkey.Strings(keys))
}
