package attendance

import (
	"time"

	"github.com/presensia/presensia-backend-go/internal/domain/attendance"
	"github.com/presensia/presensia-backend-go/internal/domain/leave"
	"github.com/presensia/presensia-backend-go/internal/pkg/timeutil"
)

// ReconcilePeriod builds the complete day-by-day timeline for
// [start, end], one entry per calendar day in ascending order. Days with
// no row get an inferred status: future days are never absent, approved
// leave overlays the gap, weekends and pre-employment days are excluded
// from absence, and today without a record is pending rather than failed.
//
// start, end, today and joinDate are date-only values (midnight UTC).
// today is injected, not read from a clock, so the function is pure:
// identical inputs always yield the identical sequence.
func ReconcilePeriod(
	start, end, today time.Time,
	records []attendance.Record,
	leaves []leave.Request,
	joinDate *time.Time,
) []attendance.DayStatus {
	recordsByDate := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		if _, ok := recordsByDate[rec.DateLocal]; !ok {
			recordsByDate[rec.DateLocal] = rec
		}
	}

	var days []attendance.DayStatus
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, reconcileDay(d, today, recordsByDate, leaves, joinDate))
	}
	return days
}

func reconcileDay(
	d, today time.Time,
	recordsByDate map[string]attendance.Record,
	leaves []leave.Request,
	joinDate *time.Time,
) attendance.DayStatus {
	day := attendance.DayStatus{
		Date:      d.Format(timeutil.DateKeyLayout),
		Weekday:   d.Weekday(),
		IsWeekend: timeutil.IsWeekend(d),
	}

	if d.After(today) {
		day.Status = attendance.DayFuture
		return day
	}

	if rec, ok := recordsByDate[day.Date]; ok {
		day.Status = attendance.DayCodeForStatus(rec.Status)
		clockIn := rec.ClockIn
		day.ClockIn = &clockIn
		day.ClockOut = rec.ClockOut
		day.WorkHours = rec.WorkHours
		day.Notes = rec.Notes
		return day
	}

	for _, l := range leaves {
		if l.Status == leave.RequestStatusApproved && l.Covers(d) {
			day.Status = dayCodeForLeave(l.Type)
			return day
		}
	}

	if day.IsWeekend {
		day.Status = attendance.DayWeekend
		return day
	}

	if joinDate != nil && d.Before(*joinDate) {
		day.Status = attendance.DayNotEmployed
		return day
	}

	if d.Equal(today) {
		day.Status = attendance.DayPending
		return day
	}

	day.Status = attendance.DayAbsent
	return day
}

// dayCodeForLeave is the fixed mapping from leave type to day code.
func dayCodeForLeave(t leave.Type) attendance.DayCode {
	switch t {
	case leave.TypeSick:
		return attendance.DaySick
	case leave.TypePermission:
		return attendance.DayPermission
	default:
		return attendance.DayLeave
	}
}

// Summarize aggregates a reconciled period. Attended is
// present + late + early_leave; only true absent days feed the absence
// rate; weekend, future and pre-employment days stay out of every
// denominator.
func Summarize(days []attendance.DayStatus) attendance.PeriodSummary {
	summary := attendance.PeriodSummary{TotalDays: len(days)}

	for _, day := range days {
		if day.WorkHours != nil {
			summary.TotalHours += *day.WorkHours
		}

		if !day.Status.CountsAsWorkDay() {
			continue
		}
		summary.WorkDays++

		switch {
		case day.Status.Attended():
			summary.Attended++
			switch day.Status {
			case attendance.DayPresent:
				summary.Present++
			case attendance.DayLate:
				summary.Late++
			case attendance.DayEarlyLeave:
				summary.EarlyLeave++
			}
		case day.Status.OnLeave():
			summary.OnLeave++
		case day.Status == attendance.DayAbsent:
			summary.Absent++
		case day.Status == attendance.DayPending:
			summary.Pending++
		}
	}

	if summary.WorkDays > 0 {
		summary.AbsenceRate = float64(summary.Absent) / float64(summary.WorkDays)
		summary.LatenessRate = float64(summary.Late) / float64(summary.WorkDays)
	}
	return summary
}
