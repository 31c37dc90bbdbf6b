// Package repository holds the devserver's storage: user accounts (in-memory
// or MongoDB), conversations and video projects. The in-memory variants back
// tests and ephemeral dev runs; Mongo backs a persistent dev instance.
package repository

import (
	"context"
	"time"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// Account is a stored user with its credential hash. The hash never leaves
// the repository layer; handlers expose only the User projection.
type Account struct {
	ID           int
	Name         string
	Email        string
	Bio          string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLogin    time.Time
}

// User returns the API-facing projection of the account.
func (a *Account) User() *domain.User {
	return &domain.User{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Bio:       a.Bio,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt,
		LastLogin: a.LastLogin,
	}
}

// Accounts is the devserver's user persistence interface.
type Accounts interface {
	// Create stores a new account and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, acc *Account) (*Account, error)
	// FindByEmail returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindByID returns domain.ErrUserNotFound when absent.
	FindByID(ctx context.Context, id int) (*Account, error)
	// Update persists mutated profile fields and returns the stored copy.
	Update(ctx context.Context, acc *Account) (*Account, error)
}
