package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Clock-in errors
	ErrDuplicateClockIn = errors.New("you have already clocked in today")
	ErrLocationRequired = errors.New("location is required to clock in")
	ErrOutOfRadius      = errors.New("you are outside the allowed office radius")

	// Clock-out errors
	ErrNotClockedIn      = errors.New("you have not clocked in today")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)

// DuplicateClockInError carries the conflicting record so the client can
// render current state without a second round trip.
type DuplicateClockInError struct {
	Existing Record
}

func (e *DuplicateClockInError) Error() string { return ErrDuplicateClockIn.Error() }

func (e *DuplicateClockInError) Unwrap() error { return ErrDuplicateClockIn }

// AlreadyClockedOutError carries the closed record for the same reason.
type AlreadyClockedOutError struct {
	Existing Record
}

func (e *AlreadyClockedOutError) Error() string { return ErrAlreadyClockedOut.Error() }

func (e *AlreadyClockedOutError) Unwrap() error { return ErrAlreadyClockedOut }

// OutOfRadiusError reports the computed distance for transparency.
type OutOfRadiusError struct {
	DistanceMeters  float64
	MaxRadiusMeters float64
}

func (e *OutOfRadiusError) Error() string {
	return fmt.Sprintf("you are %.0f m from the office, beyond the allowed %.0f m radius",
		e.DistanceMeters, e.MaxRadiusMeters)
}

func (e *OutOfRadiusError) Unwrap() error { return ErrOutOfRadius }
