package ports

import (
	"context"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// AccountAPI is the remote account surface consumed by the session manager.
// Server rejections come back as *domain.APIError; anything else is a
// transport failure.
type AccountAPI interface {
	// Authenticate exchanges credentials for a profile and a bearer token.
	Authenticate(ctx context.Context, email, password string) (*domain.User, string, error)
	// CreateAccount registers a new user and signs it in, same shape as
	// Authenticate.
	CreateAccount(ctx context.Context, name, email, password string) (*domain.User, string, error)
	// CurrentUser fetches the profile the current token belongs to.
	CurrentUser(ctx context.Context) (*domain.User, error)
	// UpdateProfile applies a partial update and returns the server's
	// canonical profile.
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
	// ChangePassword rotates the account password. No session fields change.
	ChangePassword(ctx context.Context, current, next string) error
}
