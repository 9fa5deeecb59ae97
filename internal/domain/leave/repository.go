package leave

import "context"

// Repository defines data access for leave requests.
type Repository interface {
	// Create inserts a new request in pending status.
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (Request, error)

	// Update persists status and reviewer fields.
	Update(ctx context.Context, req Request) error

	// ListByUser returns a user's requests, newest first.
	ListByUser(ctx context.Context, userID string) ([]Request, error)

	// List returns requests across users, optionally filtered by status.
	List(ctx context.Context, status *RequestStatus) ([]Request, error)

	// FindApprovedOverlapping returns approved requests whose
	// [start_date, end_date] intersects [startDate, endDate]. A nil
	// userID spans all users.
	FindApprovedOverlapping(ctx context.Context, userID *string, startDate, endDate string) ([]Request, error)
}
