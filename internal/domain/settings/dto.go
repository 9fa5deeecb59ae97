package settings

import (
	"strconv"

	"github.com/presensia/presensia-backend-go/internal/pkg/timeutil"
	"github.com/presensia/presensia-backend-go/internal/pkg/validator"
)

type UpdateRequest struct {
	Settings map[string]string `json:"settings"`
}

var minuteKeys = []string{
	KeyClockInStart, KeyClockInEnd, KeyLateThreshold,
	KeyClockOutStart, KeyClockOutEnd, KeyAutoClockOutTime,
}

var boolKeys = []string{KeyEnableLocationTracking, KeyAutoClockOut}

var floatKeys = []string{KeyOfficeLatitude, KeyOfficeLongitude, KeyMaxRadiusMeters}

func knownKey(key string) bool {
	return validator.IsInSlice(key, minuteKeys) ||
		validator.IsInSlice(key, boolKeys) ||
		validator.IsInSlice(key, floatKeys)
}

// Validate rejects unknown keys and malformed values up front. Reads are
// lenient about bad stored values; writes are not allowed to create them.
func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Settings) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "settings",
			Message: "settings must contain at least one key",
		})
		return errs
	}

	for key, value := range r.Settings {
		switch {
		case !knownKey(key):
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "unknown setting key",
			})
		case validator.IsInSlice(key, minuteKeys) && !validator.IsValidClockTime(value):
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "value must be a clock time (HH:MM)",
			})
		case validator.IsInSlice(key, boolKeys) && value != "true" && value != "false":
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "value must be true or false",
			})
		case key == KeyOfficeLatitude && !validCoordinate(value, validator.IsValidLatitude):
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "value must be a latitude between -90 and 90",
			})
		case key == KeyOfficeLongitude && !validCoordinate(value, validator.IsValidLongitude):
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "value must be a longitude between -180 and 180",
			})
		case key == KeyMaxRadiusMeters && !validPositiveNumber(value):
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: "value must be a positive number of meters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validCoordinate(value string, inRange func(float64) bool) bool {
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && inRange(f)
}

func validPositiveNumber(value string) bool {
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && f > 0
}

// Response is the resolved configuration in its wire shape; minute fields
// are rendered back to HH:MM.
type Response struct {
	ClockInStart           string   `json:"clock_in_start"`
	ClockInEnd             string   `json:"clock_in_end"`
	LateThreshold          string   `json:"late_threshold"`
	ClockOutStart          string   `json:"clock_out_start"`
	ClockOutEnd            string   `json:"clock_out_end"`
	EnableLocationTracking bool     `json:"enable_location_tracking"`
	OfficeLatitude         *float64 `json:"office_latitude"`
	OfficeLongitude        *float64 `json:"office_longitude"`
	MaxRadiusMeters        float64  `json:"max_radius_meters"`
	AutoClockOut           bool     `json:"auto_clock_out"`
	AutoClockOutTime       string   `json:"auto_clock_out_time"`
	Warnings               []string `json:"warnings,omitempty"`
}

// NewResponse maps resolved settings to their response shape.
func NewResponse(s SystemSettings) Response {
	resp := Response{
		ClockInStart:           timeutil.FormatMinuteOfDay(s.ClockInStart),
		ClockInEnd:             timeutil.FormatMinuteOfDay(s.ClockInEnd),
		LateThreshold:          timeutil.FormatMinuteOfDay(s.LateThreshold),
		ClockOutStart:          timeutil.FormatMinuteOfDay(s.ClockOutStart),
		ClockOutEnd:            timeutil.FormatMinuteOfDay(s.ClockOutEnd),
		EnableLocationTracking: s.EnableLocationTracking,
		OfficeLatitude:         s.OfficeLatitude,
		OfficeLongitude:        s.OfficeLongitude,
		MaxRadiusMeters:        s.MaxRadiusMeters,
		AutoClockOut:           s.AutoClockOut,
		AutoClockOutTime:       timeutil.FormatMinuteOfDay(s.AutoClockOutTime),
	}
	for _, w := range s.Warnings() {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}
