package attendance

import (
	"time"

	"github.com/presensia/presensia-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Location  *string  `json:"location"`
	Notes     *string  `json:"notes"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HasCoordinates reports whether the client supplied a position.
func (r *ClockInRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type ClockOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Location  *string  `json:"location"`
	Notes     *string  `json:"notes"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PeriodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	UserID    *string
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, late, early_leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	UserName  *string  `json:"user_name,omitempty"`
	Date      string   `json:"date"`
	ClockIn   string   `json:"clock_in"`
	ClockOut  *string  `json:"clock_out,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Status    Status   `json:"status"`
	WorkHours *float64 `json:"work_hours,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// NewRecordResponse maps a Record entity to its response shape.
func NewRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:        rec.ID,
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		Date:      rec.DateLocal,
		ClockIn:   rec.ClockIn.Format(time.RFC3339),
		ClockOut:  formatTimePtr(rec.ClockOut),
		Location:  rec.ClockInLocation,
		Latitude:  rec.ClockInLatitude,
		Longitude: rec.ClockInLongitude,
		Status:    rec.Status,
		WorkHours: rec.WorkHours,
		Notes:     rec.Notes,
	}
}

type DayStatusResponse struct {
	Date      string   `json:"date"`
	Weekday   int      `json:"weekday"`
	Status    DayCode  `json:"status"`
	ClockIn   *string  `json:"clock_in,omitempty"`
	ClockOut  *string  `json:"clock_out,omitempty"`
	WorkHours *float64 `json:"work_hours,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	IsWeekend bool     `json:"is_weekend"`
}

type PeriodResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Days      []DayStatusResponse `json:"days"`
	Summary   PeriodSummary       `json:"summary"`
}

// NewDayStatusResponse maps a derived DayStatus to its response shape.
func NewDayStatusResponse(day DayStatus) DayStatusResponse {
	return DayStatusResponse{
		Date:      day.Date,
		Weekday:   int(day.Weekday),
		Status:    day.Status,
		ClockIn:   formatTimePtr(day.ClockIn),
		ClockOut:  formatTimePtr(day.ClockOut),
		WorkHours: day.WorkHours,
		Notes:     day.Notes,
		IsWeekend: day.IsWeekend,
	}
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}

type SweepResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Skipped   bool     `json:"skipped"`
	ClosedIDs []string `json:"closed_ids,omitempty"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
