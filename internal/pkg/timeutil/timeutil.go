package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the canonical "local day" representation. Attendance
// records are keyed by this value computed in the business timezone, not
// in the timezone of the host running the process.
const DateKeyLayout = "2006-01-02"

// ParseMinuteOfDay parses an "HH:MM" string into a minute-of-day integer
// in [0, 1439].
func ParseMinuteOfDay(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}

	return hour*60 + minute, nil
}

// MinuteOfDay returns the minute-of-day of t as observed in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// DateKey returns the "YYYY-MM-DD" calendar date of t as observed in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key into a date-only time.Time
// (midnight UTC). Comparisons between parsed keys are safe because they
// all carry the same zero clock.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateKeyLayout, key)
}

// DayBounds returns the [start, end) instants of the local calendar day
// identified by key, expressed in UTC.
func DayBounds(key string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := d
	end := d.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}

// Truncate drops the clock portion of t as observed in loc, returning a
// date-only value (midnight UTC) comparable with ParseDateKey output.
func Truncate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatMinuteOfDay renders a minute-of-day integer back into "HH:MM".
func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
