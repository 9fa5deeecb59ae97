package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/presensia/presensia-backend-go/internal/domain/settings"
)

type Service struct {
	settingsRepo settings.Repository
}

func NewService(settingsRepo settings.Repository) *Service {
	return &Service{settingsRepo: settingsRepo}
}

// Get returns the resolved configuration. Malformed stored values show up
// as defaults plus a warning, never as an error.
func (s *Service) Get(ctx context.Context) (settings.Response, error) {
	values, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return settings.Response{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.NewResponse(settings.FromMap(values)), nil
}

// Update writes the given keys and returns the configuration as resolved
// after the write.
func (s *Service) Update(ctx context.Context, req settings.UpdateRequest) (settings.Response, error) {
	if err := req.Validate(); err != nil {
		return settings.Response{}, err
	}

	for key, value := range req.Settings {
		if err := s.settingsRepo.Put(ctx, key, value); err != nil {
			return settings.Response{}, fmt.Errorf("failed to store setting %s: %w", key, err)
		}
		slog.Info("Setting updated", "key", key, "value", value)
	}

	return s.Get(ctx)
}
