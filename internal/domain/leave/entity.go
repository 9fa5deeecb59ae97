package leave

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type Type string

const (
	TypeAnnual     Type = "annual"
	TypeSick       Type = "sick"
	TypePermission Type = "permission"
	TypeUnpaid     Type = "unpaid"
)

// Valid reports whether t is a known leave type.
func (t Type) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypePermission, TypeUnpaid:
		return true
	}
	return false
}

// Request is a leave request over an inclusive date range. Only approved
// requests participate in period reconciliation.
type Request struct {
	ID     string
	UserID string

	StartDate time.Time
	EndDate   time.Time

	Type   Type
	Reason string

	Status          RequestStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	UserName *string
}

// Covers reports whether the date-only day d falls inside the request's
// inclusive range.
func (r Request) Covers(d time.Time) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}
