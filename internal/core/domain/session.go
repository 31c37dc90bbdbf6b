package domain

import "errors"

// SessionStatus represents the lifecycle state of the client session.
type SessionStatus string

const (
	// StatusInitializing holds from process start until the stored token has
	// been validated (or found absent). Authenticated-only views must not
	// render while in this state.
	StatusInitializing SessionStatus = "initializing"

	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// validTransitions defines the allowed session state machine transitions.
var validTransitions = map[SessionStatus][]SessionStatus{
	StatusInitializing:    {StatusAuthenticated, StatusUnauthenticated},
	StatusAuthenticated:   {StatusUnauthenticated},
	StatusUnauthenticated: {StatusAuthenticated},
}

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrVideoNotFound = errors.New("video not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrConversationNotFound = errors.New("conversation not found")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether moving from the current status to next is a
// valid state machine step. Staying in the same status is not a transition.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is a read-only snapshot of the current authentication state.
// Status is derived from User and Token at snapshot time, never stored
// separately from them.
type Session struct {
	Status    SessionStatus `json:"status"`
	User      *User         `json:"user,omitempty"`
	Token     string        `json:"-"`
	LastError string        `json:"last_error,omitempty"`
}

// Authenticated reports whether the snapshot represents a validated sign-in.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// DeriveStatus computes the session status from its underlying fields. A
// token without a confirmed user never counts as authenticated.
func DeriveStatus(user *User, token string, initializing bool) SessionStatus {
	if initializing {
		return StatusInitializing
	}
	if user != nil && token != "" {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}
