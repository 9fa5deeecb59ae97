package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/presensia/presensia-backend-go/internal/domain/attendance"
	"github.com/presensia/presensia-backend-go/internal/domain/audit"
	"github.com/presensia/presensia-backend-go/internal/domain/leave"
	"github.com/presensia/presensia-backend-go/internal/domain/settings"
	"github.com/presensia/presensia-backend-go/internal/domain/user"
	"github.com/presensia/presensia-backend-go/internal/pkg/clock"
	"github.com/presensia/presensia-backend-go/internal/pkg/geo"
	"github.com/presensia/presensia-backend-go/internal/pkg/timeutil"
)

// AutoClockOutNote is appended to records closed by the sweeper.
const AutoClockOutNote = "[System] Auto Clock-Out"

type Service struct {
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	userRepo       user.Repository
	settingsRepo   settings.Repository
	auditLog       audit.Log
	clock          clock.Clock
	zone           *time.Location
}

func NewService(
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	userRepo user.Repository,
	settingsRepo settings.Repository,
	auditLog audit.Log,
	clk clock.Clock,
	zone *time.Location,
) *Service {
	return &Service{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		userRepo:       userRepo,
		settingsRepo:   settingsRepo,
		auditLog:       auditLog,
		clock:          clk,
		zone:           zone,
	}
}

// ClockIn opens today's attendance record for the caller. The status
// decision, geofence check and duration math all use the single instant
// read at the top; the storage-level unique constraint on
// (user_id, date_local) resolves races the pre-check cannot.
func (s *Service) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	cfg, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	dateLocal := timeutil.DateKey(now, s.zone)

	// Fast-path duplicate check; the unique index is the source of truth.
	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.RecordResponse{}, &attendance.DuplicateClockInError{Existing: *existing}
	}

	if err := s.validateGeofence(cfg, req.Latitude, req.Longitude); err != nil {
		return attendance.RecordResponse{}, err
	}

	status := attendance.StatusForClockIn(timeutil.MinuteOfDay(now, s.zone), cfg.LateThreshold)

	rec := attendance.Record{
		UserID:           userID,
		DateLocal:        dateLocal,
		ClockIn:          now,
		ClockInLocation:  req.Location,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
		Status:           status,
		Notes:            req.Notes,
	}

	created, err := s.attendanceRepo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateClockIn) {
			// Lost the race to a concurrent request; surface the winner.
			winner, lookupErr := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
			if lookupErr == nil && winner != nil {
				return attendance.RecordResponse{}, &attendance.DuplicateClockInError{Existing: *winner}
			}
			return attendance.RecordResponse{}, attendance.ErrDuplicateClockIn
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	s.recordAudit(ctx, userID, audit.ActionClockIn,
		fmt.Sprintf("clocked in at %s (%s)", now.In(s.zone).Format("15:04"), status))

	return attendance.NewRecordResponse(created), nil
}

// ClockOut closes today's open record. Status may only move
// present -> early_leave here; a late record stays late.
func (s *Service) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	cfg, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	dateLocal := timeutil.DateKey(now, s.zone)

	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return attendance.RecordResponse{}, attendance.ErrNotClockedIn
	}
	if !rec.IsOpen() {
		return attendance.RecordResponse{}, &attendance.AlreadyClockedOutError{Existing: *rec}
	}

	closed := s.applyClockOut(rec, now, cfg)
	closed.ClockOutLocation = req.Location
	closed.ClockOutLatitude = req.Latitude
	closed.ClockOutLongitude = req.Longitude
	if req.Notes != nil {
		closed.AppendNote(*req.Notes)
	}

	if err := s.attendanceRepo.Update(ctx, *closed); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	s.recordAudit(ctx, userID, audit.ActionClockOut,
		fmt.Sprintf("clocked out at %s (%s)", now.In(s.zone).Format("15:04"), closed.Status))

	return attendance.NewRecordResponse(*closed), nil
}

// applyClockOut is the shared Open -> Closed transition used by both the
// user-facing clock-out and the sweeper.
func (s *Service) applyClockOut(rec *attendance.Record, now time.Time, cfg settings.SystemSettings) *attendance.Record {
	isEarly := timeutil.MinuteOfDay(now, s.zone) < cfg.ClockOutStart
	rec.Status = rec.Status.AtClockOut(isEarly)

	clockOut := now
	rec.ClockOut = &clockOut
	workHours := attendance.WorkHours(rec.ClockIn, now)
	rec.WorkHours = &workHours
	return rec
}

// GetMyPeriod reconciles the caller's timeline over a date range.
func (s *Service) GetMyPeriod(ctx context.Context, req attendance.PeriodRequest) (attendance.PeriodResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.PeriodResponse{}, err
	}
	return s.getPeriod(ctx, userID, req)
}

// GetUserPeriod reconciles any user's timeline; admin surface.
func (s *Service) GetUserPeriod(ctx context.Context, userID string, req attendance.PeriodRequest) (attendance.PeriodResponse, error) {
	return s.getPeriod(ctx, userID, req)
}

func (s *Service) getPeriod(ctx context.Context, userID string, req attendance.PeriodRequest) (attendance.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PeriodResponse{}, err
	}

	start, err := timeutil.ParseDateKey(req.StartDate)
	if err != nil {
		return attendance.PeriodResponse{}, err
	}
	end, err := timeutil.ParseDateKey(req.EndDate)
	if err != nil {
		return attendance.PeriodResponse{}, err
	}

	records, err := s.attendanceRepo.ListByUserRange(ctx, userID, req.StartDate, req.EndDate)
	if err != nil {
		return attendance.PeriodResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	leaves, err := s.leaveRepo.FindApprovedOverlapping(ctx, &userID, req.StartDate, req.EndDate)
	if err != nil {
		return attendance.PeriodResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	var joinDate *time.Time
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return attendance.PeriodResponse{}, fmt.Errorf("failed to get user: %w", err)
		}
	} else if u.JoinDate != nil {
		jd := timeutil.Truncate(*u.JoinDate, s.zone)
		joinDate = &jd
	}

	today := timeutil.Truncate(s.clock.Now(), s.zone)
	days := ReconcilePeriod(start, end, today, records, leaves, joinDate)

	responses := make([]attendance.DayStatusResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, attendance.NewDayStatusResponse(day))
	}

	return attendance.PeriodResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Days:      responses,
		Summary:   Summarize(days),
	}, nil
}

// GetMyRecords returns the caller's raw rows for a date range.
func (s *Service) GetMyRecords(ctx context.Context, req attendance.PeriodRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByUserRange(ctx, userID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec))
	}
	return responses, nil
}

// ListAttendance returns records across users with filters; admin surface.
func (s *Service) ListAttendance(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    responses,
	}, nil
}

// Sweep force-closes every record still open on today's local day, using
// the same clock-out transition as the user action. It runs only when
// auto clock-out is enabled and local time has passed the configured
// cutoff. Per-record failures are counted, not fatal, and records closed
// by an earlier run are never reselected.
func (s *Service) Sweep(ctx context.Context) (attendance.SweepResult, error) {
	cfg, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.SweepResult{}, err
	}

	if !cfg.AutoClockOut {
		return attendance.SweepResult{Skipped: true}, nil
	}

	now := s.clock.Now()
	if timeutil.MinuteOfDay(now, s.zone) < cfg.AutoClockOutTime {
		return attendance.SweepResult{Skipped: true}, nil
	}

	dateLocal := timeutil.DateKey(now, s.zone)
	open, err := s.attendanceRepo.ListOpenByDate(ctx, dateLocal)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to list open records: %w", err)
	}

	var result attendance.SweepResult
	for _, rec := range open {
		closed := s.applyClockOut(&rec, now, cfg)
		closed.AppendNote(AutoClockOutNote)

		if err := s.attendanceRepo.Update(ctx, *closed); err != nil {
			slog.Error("Sweep: failed to auto clock out record",
				"record_id", rec.ID, "user_id", rec.UserID, "error", err)
			result.Failed++
			continue
		}

		s.recordAudit(ctx, rec.UserID, audit.ActionAutoClockOut,
			fmt.Sprintf("record %s closed at %s", rec.ID, now.In(s.zone).Format("15:04")))

		result.Processed++
		result.ClosedIDs = append(result.ClosedIDs, rec.ID)
	}

	return result, nil
}

// validateGeofence applies the office-radius policy. Disabled tracking or
// unset office coordinates skip the check entirely; that is deliberate.
func (s *Service) validateGeofence(cfg settings.SystemSettings, lat, lon *float64) error {
	if !cfg.EnableLocationTracking || !cfg.HasOfficeLocation() {
		return nil
	}

	if lat == nil || lon == nil {
		return attendance.ErrLocationRequired
	}

	distance := geo.DistanceMeters(*lat, *lon, *cfg.OfficeLatitude, *cfg.OfficeLongitude)
	if distance > cfg.MaxRadiusMeters {
		return &attendance.OutOfRadiusError{
			DistanceMeters:  distance,
			MaxRadiusMeters: cfg.MaxRadiusMeters,
		}
	}
	return nil
}

// loadSettings resolves settings fresh for this operation. Malformed
// values already fell back to defaults; they only get logged here.
func (s *Service) loadSettings(ctx context.Context) (settings.SystemSettings, error) {
	values, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return settings.SystemSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := settings.FromMap(values)
	for _, warning := range cfg.Warnings() {
		slog.Warn("Settings fallback", "error", warning.Error())
	}
	return cfg, nil
}

// recordAudit writes a best-effort audit entry. Failures are logged and
// never affect the primary write.
func (s *Service) recordAudit(ctx context.Context, userID, action, detail string) {
	entry := audit.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.clock.Now(),
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		slog.Error("Failed to record audit entry", "action", action, "user_id", userID, "error", err)
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}
