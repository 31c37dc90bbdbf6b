package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// MemoryAccounts is a mutex-guarded in-memory Accounts implementation.
type MemoryAccounts struct {
	mu      sync.Mutex
	byID    map[int]*Account
	byEmail map[string]int
	nextID  int
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{
		byID:    make(map[int]*Account),
		byEmail: make(map[string]int),
		nextID:  1,
	}
}

func cloneAccount(a *Account) *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *MemoryAccounts) Create(_ context.Context, acc *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(acc.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrUserExists
	}

	stored := cloneAccount(acc)
	stored.ID = r.nextID
	stored.Email = email
	r.nextID++

	r.byID[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return cloneAccount(stored), nil
}

func (r *MemoryAccounts) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(r.byID[id]), nil
}

func (r *MemoryAccounts) FindByID(_ context.Context, id int) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(acc), nil
}

func (r *MemoryAccounts) Update(_ context.Context, acc *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[acc.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	updated := cloneAccount(acc)
	updated.Email = stored.Email // email is immutable once registered
	r.byID[acc.ID] = updated
	return cloneAccount(updated), nil
}
