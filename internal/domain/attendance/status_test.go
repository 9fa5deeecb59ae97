package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const eightAM = 8 * 60 // default late threshold

func TestStatusForClockIn(t *testing.T) {
	cases := []struct {
		name      string
		nowMinute int
		want      Status
	}{
		{"one minute before threshold", 7*60 + 59, StatusPresent},
		{"exactly at threshold", 8 * 60, StatusPresent},
		{"one minute after threshold", 8*60 + 1, StatusLate},
		{"long after window", 14 * 60, StatusLate},
		{"very early morning", 5 * 60, StatusPresent},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, StatusForClockIn(c.nowMinute, eightAM))
		})
	}
}

func TestAtClockOut(t *testing.T) {
	cases := []struct {
		name  string
		from  Status
		early bool
		want  Status
	}{
		{"present leaving early becomes early_leave", StatusPresent, true, StatusEarlyLeave},
		{"present leaving on time stays present", StatusPresent, false, StatusPresent},
		{"late leaving early stays late", StatusLate, true, StatusLate},
		{"late leaving on time stays late", StatusLate, false, StatusLate},
		{"early_leave is stable", StatusEarlyLeave, true, StatusEarlyLeave},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.from.AtClockOut(c.early))
		})
	}
}

func TestWorkHours(t *testing.T) {
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 9.0, WorkHours(in, in.Add(9*time.Hour)))
	assert.Equal(t, 8.75, WorkHours(in, in.Add(8*time.Hour+45*time.Minute)))
	assert.Equal(t, 0.0, WorkHours(in, in))
	// Clock skew must not produce negative durations.
	assert.Equal(t, 0.0, WorkHours(in, in.Add(-time.Minute)))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPresent.Valid())
	assert.True(t, StatusLate.Valid())
	assert.True(t, StatusEarlyLeave.Valid())
	assert.False(t, Status("absent").Valid())
	assert.False(t, Status("").Valid())
}

func TestDayCodeClassification(t *testing.T) {
	assert.True(t, DayPresent.Attended())
	assert.True(t, DayLate.Attended())
	assert.True(t, DayEarlyLeave.Attended())
	assert.False(t, DayAbsent.Attended())

	assert.True(t, DayLeave.OnLeave())
	assert.True(t, DaySick.OnLeave())
	assert.True(t, DayPermission.OnLeave())
	assert.False(t, DayPresent.OnLeave())

	assert.False(t, DayWeekend.CountsAsWorkDay())
	assert.False(t, DayFuture.CountsAsWorkDay())
	assert.False(t, DayNotEmployed.CountsAsWorkDay())
	assert.True(t, DayAbsent.CountsAsWorkDay())
	assert.True(t, DayPending.CountsAsWorkDay())
}

func TestAppendNote(t *testing.T) {
	var rec Record
	rec.AppendNote("first")
	assert.Equal(t, "first", *rec.Notes)

	rec.AppendNote("second")
	assert.Equal(t, "first\nsecond", *rec.Notes)
}
