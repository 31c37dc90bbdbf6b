package ports

import (
	"context"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// SettingsAPI is the remote application settings surface.
type SettingsAPI interface {
	Settings(ctx context.Context) (domain.Settings, domain.SettingsValidation, error)
	UpdateSettings(ctx context.Context, values domain.Settings) (domain.SettingsValidation, error)
}
