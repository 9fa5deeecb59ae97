package audit

import "context"

// Log records audit entries. Writes are best-effort: a failure is logged
// by the caller and never rolls back the primary write it annotates.
type Log interface {
	Record(ctx context.Context, entry Entry) error
}
