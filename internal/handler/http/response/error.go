package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/presensia/presensia-backend-go/internal/domain/attendance"
	"github.com/presensia/presensia-backend-go/internal/domain/auth"
	"github.com/presensia/presensia-backend-go/internal/domain/leave"
	"github.com/presensia/presensia-backend-go/internal/domain/user"
	"github.com/presensia/presensia-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Rich attendance conflicts carry the winning record
	var dupErr *attendance.DuplicateClockInError
	if errors.As(err, &dupErr) {
		ConflictWithData(w, "Already clocked in today", attendance.NewRecordResponse(dupErr.Existing))
		return
	}
	var closedErr *attendance.AlreadyClockedOutError
	if errors.As(err, &closedErr) {
		ConflictWithData(w, "Already clocked out today", attendance.NewRecordResponse(closedErr.Existing))
		return
	}
	var radiusErr *attendance.OutOfRadiusError
	if errors.As(err, &radiusErr) {
		ForbiddenWithDetails(w, "Outside the allowed office radius", map[string]string{
			"distance_meters":   fmt.Sprintf("%.0f", radiusErr.DistanceMeters),
			"max_radius_meters": fmt.Sprintf("%.0f", radiusErr.MaxRadiusMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateClockIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No clock-in found for today", nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location coordinates are required to clock in", nil)
	case errors.Is(err, attendance.ErrOutOfRadius):
		Forbidden(w, "Outside the allowed office radius")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "An overlapping leave request already exists")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
