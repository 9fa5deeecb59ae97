package cron

import (
	"context"
	"log/slog"
	"time"

	attendanceService "github.com/presensia/presensia-backend-go/internal/service/attendance"
)

type AttendanceJobs struct {
	attendanceSvc *attendanceService.Service
}

func NewAttendanceJobs(attendanceSvc *attendanceService.Service) *AttendanceJobs {
	return &AttendanceJobs{attendanceSvc: attendanceSvc}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clock_out_sweep", 10*time.Minute, j.AutoClockOutSweep)
}

// AutoClockOutSweep force-closes today's stale open records. The service
// itself decides whether the cutoff has passed, so the job can run on a
// dumb interval; runs before the cutoff report skipped and do nothing.
func (j *AttendanceJobs) AutoClockOutSweep(ctx context.Context) error {
	result, err := j.attendanceSvc.Sweep(ctx)
	if err != nil {
		return err
	}

	if result.Skipped {
		return nil
	}

	if result.Processed > 0 || result.Failed > 0 {
		slog.Info("Cron: auto clock-out sweep finished",
			"processed", result.Processed, "failed", result.Failed)
	}
	return nil
}
