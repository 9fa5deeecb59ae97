package attendance

import (
	"math"
	"time"
)

// Status is the stored state of a clock record. Day-level derived codes
// live in DayCode; only these three are ever written to the store.
type Status string

const (
	StatusPresent    Status = "present"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
)

// Valid reports whether s is a storable status.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusEarlyLeave:
		return true
	}
	return false
}

// StatusForClockIn decides the clock-in status from minute-of-day values
// in the business timezone. Arriving exactly at the threshold is still
// present. There is no hard cutoff after the clock-in window ends: a
// later arrival is simply late.
func StatusForClockIn(nowMinute, lateThresholdMinute int) Status {
	if nowMinute <= lateThresholdMinute {
		return StatusPresent
	}
	return StatusLate
}

// AtClockOut is the clock-out transition table. Leaving before the
// clock-out window upgrades present to early_leave; late never regresses.
func (s Status) AtClockOut(early bool) Status {
	if early && s == StatusPresent {
		return StatusEarlyLeave
	}
	return s
}

// WorkHours returns the worked duration in decimal hours, rounded to two
// places and never negative.
func WorkHours(clockIn, clockOut time.Time) float64 {
	hours := clockOut.Sub(clockIn).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Round(hours*100) / 100
}

// DayCode classifies one calendar day in a reconciled period. Exactly one
// code is assigned per day.
type DayCode string

const (
	DayPresent     DayCode = "present"
	DayLate        DayCode = "late"
	DayEarlyLeave  DayCode = "early_leave"
	DayAbsent      DayCode = "absent"
	DayLeave       DayCode = "leave"
	DaySick        DayCode = "sick"
	DayPermission  DayCode = "permission"
	DayWeekend     DayCode = "weekend"
	DayFuture      DayCode = "future"
	DayPending     DayCode = "pending"
	DayNotEmployed DayCode = "not_employed"
)

// DayCodeForStatus carries a stored record status into its day code
// verbatim.
func DayCodeForStatus(s Status) DayCode { return DayCode(s) }

// Attended reports whether the code counts toward attendance.
func (c DayCode) Attended() bool {
	return c == DayPresent || c == DayLate || c == DayEarlyLeave
}

// OnLeave reports whether the code is a leave-family code.
func (c DayCode) OnLeave() bool {
	return c == DayLeave || c == DaySick || c == DayPermission
}

// CountsAsWorkDay reports whether the day belongs in aggregation
// denominators.
func (c DayCode) CountsAsWorkDay() bool {
	switch c {
	case DayWeekend, DayFuture, DayNotEmployed:
		return false
	}
	return true
}
