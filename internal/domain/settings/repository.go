package settings

import "context"

// Repository is the key/value store behind SystemSettings. Settings are
// loaded fresh per operation; the core keeps no long-lived cache.
type Repository interface {
	// GetAll returns every stored setting key/value pair.
	GetAll(ctx context.Context) (map[string]string, error)

	// Put upserts a single key.
	Put(ctx context.Context, key, value string) error
}
