package attendance

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presensia/presensia-backend-go/internal/domain/attendance"
	"github.com/presensia/presensia-backend-go/internal/domain/audit"
	"github.com/presensia/presensia-backend-go/internal/domain/leave"
	"github.com/presensia/presensia-backend-go/internal/domain/settings"
	"github.com/presensia/presensia-backend-go/internal/domain/user"
	"github.com/presensia/presensia-backend-go/internal/pkg/clock"
)

// ---- fakes -------------------------------------------------------------

type fakeAttendanceRepo struct {
	records map[string]attendance.Record // keyed by userID|dateLocal
	nextID  int

	// forceDuplicateOnCreate simulates losing the unique-index race after
	// the pre-check passed.
	forceDuplicateOnCreate bool
	raceWinner             *attendance.Record

	failUpdateIDs map[string]bool
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records:       make(map[string]attendance.Record),
		failUpdateIDs: make(map[string]bool),
	}
}

func (f *fakeAttendanceRepo) key(userID, dateLocal string) string {
	return userID + "|" + dateLocal
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if f.forceDuplicateOnCreate {
		if f.raceWinner != nil {
			f.records[f.key(rec.UserID, rec.DateLocal)] = *f.raceWinner
		}
		return attendance.Record{}, attendance.ErrDuplicateClockIn
	}
	k := f.key(rec.UserID, rec.DateLocal)
	if _, ok := f.records[k]; ok {
		return attendance.Record{}, attendance.ErrDuplicateClockIn
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.records[k] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID, dateLocal string) (*attendance.Record, error) {
	if rec, ok := f.records[f.key(userID, dateLocal)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, rec attendance.Record) error {
	if f.failUpdateIDs[rec.ID] {
		return fmt.Errorf("forced update failure")
	}
	for k, existing := range f.records {
		if existing.ID == rec.ID {
			f.records[k] = rec
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) ListByUserRange(ctx context.Context, userID, startDate, endDate string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.UserID == userID && rec.DateLocal >= startDate && rec.DateLocal <= endDate {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateLocal < out[j].DateLocal })
	return out, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListOpenByDate(ctx context.Context, dateLocal string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.DateLocal == dateLocal && rec.IsOpen() {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (f *fakeLeaveRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	req.ID = fmt.Sprintf("leave-%d", len(f.requests)+1)
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	for _, req := range f.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return leave.Request{}, leave.ErrRequestNotFound
}

func (f *fakeLeaveRepo) Update(ctx context.Context, req leave.Request) error {
	for i, existing := range f.requests {
		if existing.ID == req.ID {
			f.requests[i] = req
			return nil
		}
	}
	return leave.ErrRequestNotFound
}

func (f *fakeLeaveRepo) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	var out []leave.Request
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, status *leave.RequestStatus) ([]leave.Request, error) {
	var out []leave.Request
	for _, req := range f.requests {
		if status == nil || req.Status == *status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) FindApprovedOverlapping(ctx context.Context, userID *string, startDate, endDate string) ([]leave.Request, error) {
	start, _ := time.Parse("2006-01-02", startDate)
	end, _ := time.Parse("2006-01-02", endDate)

	var out []leave.Request
	for _, req := range f.requests {
		if req.Status != leave.RequestStatusApproved {
			continue
		}
		if userID != nil && req.UserID != *userID {
			continue
		}
		if req.StartDate.After(end) || req.EndDate.Before(start) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeSettingsRepo struct {
	values map[string]string
}

func (f *fakeSettingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	return f.values, nil
}

func (f *fakeSettingsRepo) Put(ctx context.Context, key, value string) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

type fakeAuditLog struct {
	entries []audit.Entry
}

func (f *fakeAuditLog) Record(ctx context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditLog) actions() []string {
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

// ---- harness -----------------------------------------------------------

type fixture struct {
	svc        *Service
	attendance *fakeAttendanceRepo
	leaves     *fakeLeaveRepo
	users      *fakeUserRepo
	settings   *fakeSettingsRepo
	audits     *fakeAuditLog
	zone       *time.Location
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	zone, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	f := &fixture{
		attendance: newFakeAttendanceRepo(),
		leaves:     &fakeLeaveRepo{},
		users:      &fakeUserRepo{users: map[string]user.User{"user-1": {ID: "user-1", Email: "a@b.co"}}},
		settings:   &fakeSettingsRepo{values: map[string]string{}},
		audits:     &fakeAuditLog{},
		zone:       zone,
	}
	f.svc = NewService(f.attendance, f.leaves, f.users, f.settings, f.audits, clock.Fixed(now), zone)
	return f
}

func (f *fixture) at(t *testing.T, now time.Time) {
	t.Helper()
	f.svc = NewService(f.attendance, f.leaves, f.users, f.settings, f.audits, clock.Fixed(now), f.zone)
}

func authedContext(t *testing.T, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"user_id": userID, "type": "access"})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func jakartaTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	zone, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return time.Date(2025, 3, 10, hour, minute, 0, 0, zone) // a Monday
}

// ---- clock-in ----------------------------------------------------------

func TestClockInBeforeThresholdIsPresent(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 7, 59))
	ctx := authedContext(t, "user-1")

	resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, []string{audit.ActionClockIn}, f.audits.actions())
}

func TestClockInExactlyAtThresholdIsPresent(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestClockInAfterThresholdIsLate(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 1))
	ctx := authedContext(t, "user-1")

	resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
}

func TestClockInHonorsConfiguredThreshold(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 15))
	f.settings.values[settings.KeyLateThreshold] = "08:30"
	ctx := authedContext(t, "user-1")

	resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestClockInDuplicateReturnsExistingRecord(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	first, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrDuplicateClockIn)

	var dup *attendance.DuplicateClockInError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.ID)
}

func TestClockInRaceSurfacesWinner(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	winner := attendance.Record{
		ID:        "rec-winner",
		UserID:    "user-1",
		DateLocal: "2025-03-10",
		ClockIn:   jakartaTime(t, 7, 59),
		Status:    attendance.StatusPresent,
	}
	f.attendance.forceDuplicateOnCreate = true
	f.attendance.raceWinner = &winner

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.Error(t, err)

	var dup *attendance.DuplicateClockInError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "rec-winner", dup.Existing.ID)
}

func TestClockInGeofence(t *testing.T) {
	office := map[string]string{
		settings.KeyEnableLocationTracking: "true",
		settings.KeyOfficeLatitude:         "-6.2000",
		settings.KeyOfficeLongitude:        "106.8000",
		settings.KeyMaxRadiusMeters:        "100",
	}

	t.Run("missing coordinates rejected", func(t *testing.T) {
		f := newFixture(t, jakartaTime(t, 8, 0))
		f.settings.values = office

		_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
		assert.ErrorIs(t, err, attendance.ErrLocationRequired)
	})

	t.Run("outside radius rejected with distance", func(t *testing.T) {
		f := newFixture(t, jakartaTime(t, 8, 0))
		f.settings.values = office

		lat, lon := -6.2100, 106.8000 // about 1.1 km south
		_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{
			Latitude: &lat, Longitude: &lon,
		})
		require.Error(t, err)

		var radius *attendance.OutOfRadiusError
		require.ErrorAs(t, err, &radius)
		assert.Greater(t, radius.DistanceMeters, 100.0)
		assert.Equal(t, 100.0, radius.MaxRadiusMeters)
	})

	t.Run("inside radius accepted", func(t *testing.T) {
		f := newFixture(t, jakartaTime(t, 8, 0))
		f.settings.values = office

		lat, lon := -6.2001, 106.8001
		_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{
			Latitude: &lat, Longitude: &lon,
		})
		assert.NoError(t, err)
	})

	t.Run("tracking disabled skips the check", func(t *testing.T) {
		f := newFixture(t, jakartaTime(t, 8, 0))
		f.settings.values = map[string]string{
			settings.KeyOfficeLatitude:  "-6.2000",
			settings.KeyOfficeLongitude: "106.8000",
		}

		_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
		assert.NoError(t, err)
	})

	t.Run("unset office coordinates skip the check", func(t *testing.T) {
		f := newFixture(t, jakartaTime(t, 8, 0))
		f.settings.values = map[string]string{
			settings.KeyEnableLocationTracking: "true",
		}

		_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
		assert.NoError(t, err)
	})
}

func TestClockInRejectsInvalidCoordinates(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	lat := 95.0
	lon := 106.8

	_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{
		Latitude: &lat, Longitude: &lon,
	})
	assert.Error(t, err)
}

// ---- clock-out ---------------------------------------------------------

func TestClockOutWithoutClockInFails(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 17, 30))

	_, err := f.svc.ClockOut(authedContext(t, "user-1"), attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutEarlyUpgradesPresentToEarlyLeave(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	f.at(t, jakartaTime(t, 16, 45))
	resp, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusEarlyLeave, resp.Status)
	require.NotNil(t, resp.WorkHours)
	assert.Equal(t, 8.75, *resp.WorkHours)
}

func TestClockOutOnTimeKeepsPresent(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	f.at(t, jakartaTime(t, 17, 1))
	resp, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestClockOutEarlyNeverRegressesLate(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 9, 30))
	ctx := authedContext(t, "user-1")

	late, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	require.Equal(t, attendance.StatusLate, late.Status)

	f.at(t, jakartaTime(t, 16, 0))
	resp, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
}

func TestClockOutTwiceFails(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	f.at(t, jakartaTime(t, 17, 30))
	first, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.Error(t, err)

	var closed *attendance.AlreadyClockedOutError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, first.ID, closed.Existing.ID)
}

// ---- sweep -------------------------------------------------------------

func enableSweep(f *fixture) {
	f.settings.values[settings.KeyAutoClockOut] = "true"
}

func TestSweepSkippedWhenDisabled(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 22, 0))

	result, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestSweepSkippedBeforeCutoff(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 20, 59))
	enableSweep(f)

	result, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 0, result.Processed)
}

func TestSweepClosesOpenRecords(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	enableSweep(f)

	_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
	require.NoError(t, err)

	f.at(t, jakartaTime(t, 21, 30))
	result, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.ClosedIDs, 1)

	rec, err := f.attendance.GetByID(context.Background(), result.ClosedIDs[0])
	require.NoError(t, err)
	assert.False(t, rec.IsOpen())
	require.NotNil(t, rec.Notes)
	assert.Contains(t, *rec.Notes, AutoClockOutNote)
	// Sweeping at 21:30 is not an early leave.
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	assert.Contains(t, f.audits.actions(), audit.ActionAutoClockOut)
}

func TestSweepSecondRunFindsNothing(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	enableSweep(f)

	_, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
	require.NoError(t, err)

	f.at(t, jakartaTime(t, 21, 30))
	first, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Processed)

	second, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Empty(t, second.ClosedIDs)
}

func TestSweepCountsFailuresAndContinues(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	enableSweep(f)

	first, err := f.svc.ClockIn(authedContext(t, "user-1"), attendance.ClockInRequest{})
	require.NoError(t, err)
	f.users.users["user-2"] = user.User{ID: "user-2", Email: "c@d.co"}
	_, err = f.svc.ClockIn(authedContext(t, "user-2"), attendance.ClockInRequest{})
	require.NoError(t, err)

	f.attendance.failUpdateIDs[first.ID] = true

	f.at(t, jakartaTime(t, 21, 30))
	result, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
}

// ---- period ------------------------------------------------------------

func TestGetMyPeriodReconcilesWeek(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0)) // Monday 2025-03-10
	ctx := authedContext(t, "user-1")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	// Approved sick leave on Wednesday.
	f.leaves.requests = append(f.leaves.requests, leave.Request{
		ID:        "leave-1",
		UserID:    "user-1",
		StartDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Type:      leave.TypeSick,
		Status:    leave.RequestStatusApproved,
	})

	period, err := f.svc.GetMyPeriod(ctx, attendance.PeriodRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-16",
	})
	require.NoError(t, err)
	require.Len(t, period.Days, 7)

	byDate := make(map[string]attendance.DayStatusResponse)
	for _, d := range period.Days {
		byDate[d.Date] = d
	}

	assert.Equal(t, attendance.DayPresent, byDate["2025-03-10"].Status)
	assert.Equal(t, attendance.DayFuture, byDate["2025-03-11"].Status)
	assert.Equal(t, attendance.DayFuture, byDate["2025-03-12"].Status)
	assert.Equal(t, attendance.DayFuture, byDate["2025-03-16"].Status)
	assert.Equal(t, 7, period.Summary.TotalDays)
}

func TestGetMyPeriodAppliesJoinDate(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))
	ctx := authedContext(t, "user-1")

	joined := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	f.users.users["user-1"] = user.User{ID: "user-1", Email: "a@b.co", JoinDate: &joined}

	period, err := f.svc.GetMyPeriod(ctx, attendance.PeriodRequest{
		StartDate: "2025-03-03",
		EndDate:   "2025-03-07",
	})
	require.NoError(t, err)
	require.Len(t, period.Days, 5)

	assert.Equal(t, attendance.DayNotEmployed, period.Days[0].Status) // Mon 3rd
	assert.Equal(t, attendance.DayNotEmployed, period.Days[1].Status) // Tue 4th
	assert.Equal(t, attendance.DayAbsent, period.Days[2].Status)      // Wed 5th, joined
}

func TestGetMyPeriodRejectsReversedRange(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))

	_, err := f.svc.GetMyPeriod(authedContext(t, "user-1"), attendance.PeriodRequest{
		StartDate: "2025-03-16",
		EndDate:   "2025-03-10",
	})
	assert.Error(t, err)
}

func TestUserIDFromContextMissingClaims(t *testing.T) {
	f := newFixture(t, jakartaTime(t, 8, 0))

	_, err := f.svc.ClockIn(context.Background(), attendance.ClockInRequest{})
	assert.Error(t, err)
}
