package attendance

import (
	"time"
)

// Record is one attendance row. ClockOut is nil while the record is
// open (clocked in, not yet out). DateLocal is the business-timezone
// calendar day of ClockIn; together with UserID it is unique.
type Record struct {
	ID        string
	UserID    string
	DateLocal string

	ClockIn  time.Time
	ClockOut *time.Time

	ClockInLocation  *string
	ClockInLatitude  *float64
	ClockInLongitude *float64

	ClockOutLocation  *string
	ClockOutLatitude  *float64
	ClockOutLongitude *float64

	Status    Status
	WorkHours *float64
	Notes     *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	UserName *string
}

// IsOpen reports whether the record has no clock-out yet.
func (r Record) IsOpen() bool { return r.ClockOut == nil }

// AppendNote appends a note line, keeping earlier annotations.
func (r *Record) AppendNote(note string) {
	if r.Notes == nil || *r.Notes == "" {
		r.Notes = &note
		return
	}
	joined := *r.Notes + "\n" + note
	r.Notes = &joined
}

// DayStatus is one derived entry of a reconciled period. It is computed,
// never persisted: absence is inferred from the lack of a row, so storing
// it would just create a second source of truth.
type DayStatus struct {
	Date      string
	Weekday   time.Weekday
	Status    DayCode
	ClockIn   *time.Time
	ClockOut  *time.Time
	WorkHours *float64
	Notes     *string
	IsWeekend bool
}

// PeriodSummary aggregates a reconciled period. Weekend, future and
// pre-employment days are excluded from every denominator.
type PeriodSummary struct {
	TotalDays    int     `json:"total_days"`
	WorkDays     int     `json:"work_days"`
	Attended     int     `json:"attended"`
	Present      int     `json:"present"`
	Late         int     `json:"late"`
	EarlyLeave   int     `json:"early_leave"`
	Absent       int     `json:"absent"`
	OnLeave      int     `json:"on_leave"`
	Pending      int     `json:"pending"`
	TotalHours   float64 `json:"total_hours"`
	AbsenceRate  float64 `json:"absence_rate"`
	LatenessRate float64 `json:"lateness_rate"`
}
