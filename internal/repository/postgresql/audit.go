package postgresql

import (
	"context"
	"fmt"

	"github.com/presensia/presensia-backend-go/internal/domain/audit"
	"github.com/presensia/presensia-backend-go/internal/pkg/database"
)

type auditLog struct {
	db *database.DB
}

func NewAuditLog(db *database.DB) audit.Log {
	return &auditLog{db: db}
}

// Record implements audit.Log.
func (a *auditLog) Record(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO audit_entries (id, user_id, action, detail)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := q.Exec(ctx, query, entry.ID, entry.UserID, entry.Action, entry.Detail); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}
