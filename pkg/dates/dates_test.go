package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/stockdesk/pkg/dates"
)

func TestParse_AcceptedShapes(t *testing.T) {
	want := time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"day month year", "26-06-2025"},
		{"iso", "2025-06-26"},
		{"day mon year", "26-Jun-2025"},
		{"slashes", "26/06/2025"},
		{"single digit fields", "26-6-2025"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := dates.Parse(tc.input)
			require.True(t, ok, "expected %q to parse", tc.input)
			assert.Equal(t, want, dates.Day(got))
		})
	}
}

func TestParse_TimestampShapes(t *testing.T) {
	got, ok := dates.Parse("2025-06-26T09:15:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), dates.Day(got))

	got, ok = dates.Parse("26-06-2025 09:15:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), dates.Day(got))
}

func TestParse_EpochStrings(t *testing.T) {
	// 2025-06-26T00:00:00Z in seconds and milliseconds.
	got, ok := dates.Parse("1750896000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), dates.Day(got))

	got, ok = dates.Parse("1750896000000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), dates.Day(got))
}

func TestParse_GarbageNeverErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "99-99-2025", "26-Junk-2025"} {
		_, ok := dates.Parse(input)
		assert.False(t, ok, "expected %q to be rejected", input)
	}
}

func TestDaysBetween_ClampsNegative(t *testing.T) {
	now := time.Date(2025, 6, 26, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, dates.DaysBetween(time.Date(2025, 6, 21, 23, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, dates.DaysBetween(now, now))
	assert.Equal(t, 0, dates.DaysBetween(now.AddDate(0, 0, 3), now))
}
