package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/presensia/presensia-backend-go/internal/domain/settings"
	"github.com/presensia/presensia-backend-go/internal/handler/http/response"
	settingsService "github.com/presensia/presensia-backend-go/internal/service/settings"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type SettingsHandlerImpl struct {
	settingsService *settingsService.Service
}

func NewSettingsHandler(svc *settingsService.Service) SettingsHandler {
	return &SettingsHandlerImpl{settingsService: svc}
}

// Get implements SettingsHandler.
func (s *SettingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cfg)
}

// Update implements SettingsHandler.
func (s *SettingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cfg, err := s.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", cfg)
}
