package settings

import (
	"strconv"

	"github.com/presensia/presensia-backend-go/internal/pkg/timeutil"
)

// Setting keys as stored in the settings table.
const (
	KeyClockInStart           = "clock_in_start"
	KeyClockInEnd             = "clock_in_end"
	KeyLateThreshold          = "late_threshold"
	KeyClockOutStart          = "clock_out_start"
	KeyClockOutEnd            = "clock_out_end"
	KeyEnableLocationTracking = "enable_location_tracking"
	KeyOfficeLatitude         = "office_latitude"
	KeyOfficeLongitude        = "office_longitude"
	KeyMaxRadiusMeters        = "max_radius_meters"
	KeyAutoClockOut           = "auto_clock_out"
	KeyAutoClockOutTime       = "auto_clock_out_time"
)

// Documented defaults used when a key is missing or malformed.
const (
	DefaultClockInStart    = "07:00"
	DefaultClockInEnd      = "09:00"
	DefaultLateThreshold   = "08:00"
	DefaultClockOutStart   = "17:00"
	DefaultClockOutEnd     = "20:00"
	DefaultAutoClockOutAt  = "21:00"
	DefaultMaxRadiusMeters = 100
)

// SystemSettings is the resolved, comparable form of the raw key/value
// configuration. Time windows are minute-of-day integers in the business
// timezone; they are never compared against raw instants.
type SystemSettings struct {
	ClockInStart  int
	ClockInEnd    int
	LateThreshold int
	ClockOutStart int
	ClockOutEnd   int

	EnableLocationTracking bool
	OfficeLatitude         *float64
	OfficeLongitude        *float64
	MaxRadiusMeters        float64

	AutoClockOut     bool
	AutoClockOutTime int

	warnings []ConfigError
}

// Warnings returns the config errors encountered while resolving; each
// one means the corresponding field fell back to its default.
func (s SystemSettings) Warnings() []ConfigError { return s.warnings }

// FromMap resolves raw setting values into a SystemSettings. Missing keys
// take their defaults silently; malformed values take their defaults and
// are reported through Warnings so callers can log without failing the
// user-facing operation.
func FromMap(values map[string]string) SystemSettings {
	s := SystemSettings{MaxRadiusMeters: DefaultMaxRadiusMeters}

	s.ClockInStart = s.resolveMinute(values, KeyClockInStart, DefaultClockInStart)
	s.ClockInEnd = s.resolveMinute(values, KeyClockInEnd, DefaultClockInEnd)
	s.LateThreshold = s.resolveMinute(values, KeyLateThreshold, DefaultLateThreshold)
	s.ClockOutStart = s.resolveMinute(values, KeyClockOutStart, DefaultClockOutStart)
	s.ClockOutEnd = s.resolveMinute(values, KeyClockOutEnd, DefaultClockOutEnd)
	s.AutoClockOutTime = s.resolveMinute(values, KeyAutoClockOutTime, DefaultAutoClockOutAt)

	s.EnableLocationTracking = s.resolveBool(values, KeyEnableLocationTracking)
	s.AutoClockOut = s.resolveBool(values, KeyAutoClockOut)

	s.OfficeLatitude = s.resolveFloat(values, KeyOfficeLatitude)
	s.OfficeLongitude = s.resolveFloat(values, KeyOfficeLongitude)

	if raw, ok := values[KeyMaxRadiusMeters]; ok {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			s.warn(KeyMaxRadiusMeters, raw)
		} else {
			s.MaxRadiusMeters = radius
		}
	}

	return s
}

// HasOfficeLocation reports whether both office coordinates are set.
// Geofence validation is skipped entirely when they are not; that is a
// deliberate policy for deployments without a fixed office.
func (s SystemSettings) HasOfficeLocation() bool {
	return s.OfficeLatitude != nil && s.OfficeLongitude != nil
}

func (s *SystemSettings) resolveMinute(values map[string]string, key, fallback string) int {
	raw, ok := values[key]
	if !ok || raw == "" {
		raw = fallback
	}
	m, err := timeutil.ParseMinuteOfDay(raw)
	if err != nil {
		s.warn(key, raw)
		m, _ = timeutil.ParseMinuteOfDay(fallback)
	}
	return m
}

func (s *SystemSettings) resolveBool(values map[string]string, key string) bool {
	raw, ok := values[key]
	if !ok || raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		s.warn(key, raw)
		return false
	}
	return b
}

func (s *SystemSettings) resolveFloat(values map[string]string, key string) *float64 {
	raw, ok := values[key]
	if !ok || raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.warn(key, raw)
		return nil
	}
	return &f
}

func (s *SystemSettings) warn(key, value string) {
	s.warnings = append(s.warnings, ConfigError{Key: key, Value: value})
}
