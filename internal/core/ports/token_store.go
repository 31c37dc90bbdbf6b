package ports

import "context"

// TokenStore persists exactly one opaque bearer token across process
// restarts. It never inspects the token's contents.
type TokenStore interface {
	// Load returns the stored token, or "" with a nil error when no token
	// has been stored. Absence is not an error.
	Load(ctx context.Context) (string, error)
	// Save replaces the stored token.
	Save(ctx context.Context, token string) error
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
