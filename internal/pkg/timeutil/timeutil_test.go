package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestParseMinuteOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"08:01", 481, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8am", 0, true},
		{"", 0, true},
		{"12", 0, true},
	}

	for _, c := range cases {
		got, err := ParseMinuteOfDay(c.input)
		if c.wantErr {
			assert.Error(t, err, "input %q", c.input)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestFormatMinuteOfDay(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinuteOfDay(0))
	assert.Equal(t, "08:00", FormatMinuteOfDay(480))
	assert.Equal(t, "23:59", FormatMinuteOfDay(1439))
}

func TestMinuteOfDayUsesBusinessZone(t *testing.T) {
	loc := jakarta(t)

	// 01:00 UTC is 08:00 in Jakarta (UTC+7).
	instant := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 480, MinuteOfDay(instant, loc))
	assert.Equal(t, 60, MinuteOfDay(instant, time.UTC))
}

func TestDateKeyCrossesMidnightInBusinessZone(t *testing.T) {
	loc := jakarta(t)

	// 18:30 UTC on the 9th is already 01:30 on the 10th in Jakarta.
	instant := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", DateKey(instant, loc))
	assert.Equal(t, "2025-03-09", DateKey(instant, time.UTC))
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	d, err := ParseDateKey("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDateKey("10-03-2025")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	loc := jakarta(t)

	start, end, err := DayBounds("2025-03-10", loc)
	require.NoError(t, err)

	// Local midnight in Jakarta is 17:00 UTC the previous evening.
	assert.Equal(t, time.Date(2025, 3, 9, 17, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC), end)
}

func TestTruncate(t *testing.T) {
	loc := jakarta(t)

	instant := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	got := Truncate(instant, loc)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(sunday))
	assert.False(t, IsWeekend(monday))
}
