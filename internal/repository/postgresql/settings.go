package postgresql

import (
	"context"
	"fmt"

	"github.com/presensia/presensia-backend-go/internal/domain/settings"
	"github.com/presensia/presensia-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}

// GetAll implements settings.Repository.
func (s *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `SELECT key, value FROM system_settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		values[key] = value
	}

	return values, rows.Err()
}

// Put implements settings.Repository.
func (s *settingsRepository) Put(ctx context.Context, key, value string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put setting: %w", err)
	}

	return nil
}
