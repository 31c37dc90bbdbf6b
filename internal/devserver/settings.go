package devserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// settingsStore keeps the dev instance's configuration map. API keys and
// other secrets never belong here.
type settingsStore struct {
	mu     sync.Mutex
	values domain.Settings
}

func newSettingsStore() *settingsStore {
	return &settingsStore{values: domain.Settings{
		"chat.default_model": defaultChatModel,
		"chat.max_tokens":    4000,
		"chat.temperature":   0.7,
		"video.resolution":   "1080p",
		"video.max_duration": 300,
	}}
}

func (s *settingsStore) snapshot() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(domain.Settings, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *settingsStore) apply(values domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
}

// validate reports per settings group whether the stored values are usable.
// The dev instance has no real providers behind it, so groups validate as
// long as their keys hold sane types.
func (s *settingsStore) validate() domain.SettingsValidation {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, chatOK := s.values["chat.default_model"].(string)
	_, videoOK := s.values["video.resolution"].(string)
	return domain.SettingsValidation{"chat": chatOK, "video": videoOK}
}

// @Summary      Get application settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Router       /api/settings/config [get]
func (s *Server) handleSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, settingsResponse{
		Success: true,
		Data: settingsData{
			Config:     s.settings.snapshot(),
			Validation: s.settings.validate(),
		},
	})
}

// UpdateSettings is admin-only: dev instances are shared and settings are
// global to the instance.
//
// @Summary      Update application settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/settings/config [put]
func (s *Server) handleUpdateSettings(c echo.Context) error {
	var values domain.Settings
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(values) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no settings provided")
	}

	s.settings.apply(values)
	return c.JSON(http.StatusOK, settingsResponse{
		Success: true,
		Data:    settingsData{Validation: s.settings.validate()},
	})
}
