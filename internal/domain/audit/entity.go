package audit

import "time"

// Action codes recorded against attendance and leave operations.
const (
	ActionClockIn       = "CLOCK_IN"
	ActionClockOut      = "CLOCK_OUT"
	ActionAutoClockOut  = "AUTO_CLOCK_OUT"
	ActionLeaveRequest  = "LEAVE_REQUEST"
	ActionLeaveApproved = "LEAVE_APPROVED"
	ActionLeaveRejected = "LEAVE_REJECTED"
)

// Entry is one audit row attributing an action to a user.
type Entry struct {
	ID        string
	UserID    string
	Action    string
	Detail    string
	CreatedAt time.Time
}
