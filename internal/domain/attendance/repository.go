package attendance

import (
	"context"
)

// Repository defines data access for attendance records. The store keeps
// a unique constraint on (user_id, date_local); that constraint, not the
// application pre-check, is the serialization point for duplicate
// clock-ins.
type Repository interface {
	// Create inserts a new record. A uniqueness violation on
	// (user_id, date_local) comes back as ErrDuplicateClockIn, never as a
	// raw storage error.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByID retrieves a record by ID.
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByUserAndDate retrieves the record for a user on a local day, or
	// nil when none exists. Used as the duplicate clock-in fast path.
	GetByUserAndDate(ctx context.Context, userID, dateLocal string) (*Record, error)

	// Update persists clock-out fields, status, work hours and notes.
	Update(ctx context.Context, rec Record) error

	// ListByUserRange returns a user's records with date_local in
	// [startDate, endDate], ascending.
	ListByUserRange(ctx context.Context, userID, startDate, endDate string) ([]Record, error)

	// List returns records across users with filters and pagination.
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)

	// ListOpenByDate returns every open record (clock_out IS NULL) for a
	// local day. Feeds the auto-clock-out sweep; closed records are never
	// reselected, which makes the sweep idempotent.
	ListOpenByDate(ctx context.Context, dateLocal string) ([]Record, error)
}
