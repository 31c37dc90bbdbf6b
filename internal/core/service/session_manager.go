// Package service contains the session manager: the single owner of the
// client's authentication state. It is the only writer of the token store
// and the only configurer of the request authorizer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/core/ports"
	"github.com/cineai/cineai-go/internal/metrics"
)

// Fallback messages shown when the server gives no usable error message.
const (
	msgLoginFailed    = "unable to sign in"
	msgRegisterFailed = "unable to create account"
	msgProfileFailed  = "unable to update profile"
	msgPasswordFailed = "unable to change password"
)

// SessionManager owns the in-memory session and orchestrates every
// authentication operation against the remote API. All mutating operations
// resolve to a domain.Result; nothing is thrown past this boundary.
type SessionManager struct {
	api        ports.AccountAPI
	store      ports.TokenStore
	authorizer ports.RequestAuthorizer
	validate   *validator.Validate
	log        zerolog.Logger

	mu        sync.Mutex
	user      *domain.User
	token     string
	lastError string
	booting   bool
}

// NewSessionManager constructs the manager and registers its forced-logout
// callback on the authorizer. The session starts in the initializing state;
// call Bootstrap once at startup to leave it.
func NewSessionManager(api ports.AccountAPI, store ports.TokenStore, authorizer ports.RequestAuthorizer, log zerolog.Logger) *SessionManager {
	m := &SessionManager{
		api:        api,
		store:      store,
		authorizer: authorizer,
		validate:   validator.New(),
		log:        log,
		booting:    true,
	}
	authorizer.OnUnauthorized(m.forceLogout)
	return m
}

// Close unregisters the authorizer callback. Call once at application exit.
func (m *SessionManager) Close() {
	m.authorizer.ClearOnUnauthorized()
}

// Session returns a copy of the current session state. Status is derived
// from the user/token fields at snapshot time.
func (m *SessionManager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := domain.Session{
		Status:    domain.DeriveStatus(m.user, m.token, m.booting),
		Token:     m.token,
		LastError: m.lastError,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Bootstrap hydrates the session from the token store. A stored token is
// set on the authorizer and validated by fetching the current profile; any
// failure clears the store and leaves the session unauthenticated. Bootstrap
// always ends the initializing state.
func (m *SessionManager) Bootstrap(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.booting = false
		m.mu.Unlock()
	}()

	token, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("token store unreadable, starting unauthenticated")
		token = ""
	}
	if token == "" {
		m.log.Debug().Msg("no stored token")
		return
	}

	m.authorizer.SetToken(token)

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Info().Err(err).Msg("stored token rejected, clearing session")
		m.logoutInternal(ctx)
		return
	}

	m.mu.Lock()
	m.setSessionLocked(user, token)
	m.lastError = ""
	m.mu.Unlock()

	m.log.Info().Str("email", user.Email).Msg("session restored")
}

// Login exchanges credentials for a session. Only non-empty fields are
// enforced locally; everything else is the server's call.
func (m *SessionManager) Login(ctx context.Context, email, password string) domain.Result {
	m.ClearError()

	if msg := m.checkInput(loginInput{Email: email, Password: password}); msg != "" {
		return m.fail(msg)
	}

	user, token, err := m.api.Authenticate(ctx, email, password)
	if err != nil {
		return m.fail(failureMessage(err, msgLoginFailed))
	}
	if user == nil || token == "" {
		return m.fail(msgLoginFailed)
	}

	m.establish(ctx, user, token)
	m.log.Info().Str("email", user.Email).Msg("signed in")
	return domain.OK()
}

// Register creates an account and signs it in. Same contract as Login.
func (m *SessionManager) Register(ctx context.Context, name, email, password string) domain.Result {
	m.ClearError()

	if msg := m.checkInput(registerInput{Name: name, Email: email, Password: password}); msg != "" {
		return m.fail(msg)
	}

	user, token, err := m.api.CreateAccount(ctx, name, email, password)
	if err != nil {
		return m.fail(failureMessage(err, msgRegisterFailed))
	}
	if user == nil || token == "" {
		return m.fail(msgRegisterFailed)
	}

	m.establish(ctx, user, token)
	m.log.Info().Str("email", user.Email).Msg("account created")
	return domain.OK()
}

// Logout unconditionally clears the session, the token store and the
// authorizer credential. Safe to call when already unauthenticated.
func (m *SessionManager) Logout(ctx context.Context) {
	if m.logoutInternal(ctx) {
		m.log.Info().Msg("signed out")
	}
}

// UpdateProfile applies a partial profile update. Requires an authenticated
// session; calling it otherwise is a precondition violation and is rejected
// before any request is issued. On success the server's canonical profile
// replaces the local one.
func (m *SessionManager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) domain.Result {
	if !m.requireAuthenticated("update profile") {
		return domain.Fail(domain.ErrNotAuthenticated.Error())
	}
	m.ClearError()

	user, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		return m.fail(failureMessage(err, msgProfileFailed))
	}

	m.mu.Lock()
	// A forced logout may have raced the response; never resurrect a
	// cleared session with stale profile data.
	if m.token != "" {
		m.user = user
	}
	m.mu.Unlock()
	return domain.OK()
}

// ChangePassword rotates the account password. Requires an authenticated
// session. No session fields change on success, and neither outcome logs
// the user out.
func (m *SessionManager) ChangePassword(ctx context.Context, current, next string) domain.Result {
	if !m.requireAuthenticated("change password") {
		return domain.Fail(domain.ErrNotAuthenticated.Error())
	}
	m.ClearError()

	if msg := m.checkInput(passwordInput{Current: current, New: next}); msg != "" {
		return m.fail(msg)
	}

	if err := m.api.ChangePassword(ctx, current, next); err != nil {
		return m.fail(failureMessage(err, msgPasswordFailed))
	}
	return domain.OK()
}

// ClearError clears the last operation error without touching user or
// token. UI callers invoke it when switching context between forms.
func (m *SessionManager) ClearError() {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()
}

// ── internals ────────────────────────────────────────────────────────────────

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type passwordInput struct {
	Current string `validate:"required"`
	New     string `validate:"required"`
}

// establish installs a freshly issued user/token pair: durable store first,
// then the authorizer, then the in-memory session, so the persisted state
// never lags the transition.
func (m *SessionManager) establish(ctx context.Context, user *domain.User, token string) {
	if err := m.store.Save(ctx, token); err != nil {
		m.log.Error().Err(err).Msg("token not persisted, session will not survive restart")
	}
	m.authorizer.SetToken(token)

	m.mu.Lock()
	m.setSessionLocked(user, token)
	m.lastError = ""
	m.mu.Unlock()
}

// setSessionLocked mutates the session fields and accounts for the state
// transition they cause. Caller must hold mu.
func (m *SessionManager) setSessionLocked(user *domain.User, token string) {
	from := domain.DeriveStatus(m.user, m.token, m.booting)
	m.user = user
	m.token = token
	m.booting = false
	to := domain.DeriveStatus(m.user, m.token, m.booting)

	if from == to {
		return
	}
	if !from.CanTransitionTo(to) {
		m.log.Error().Str("from", string(from)).Str("to", string(to)).Msg("illegal session transition")
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(to)).Inc()
}

// logoutInternal is the single convergence point for explicit logout and
// forced logout. It reports whether an authenticated session was actually
// torn down, so concurrent authorization failures produce exactly one
// transition.
func (m *SessionManager) logoutInternal(ctx context.Context) bool {
	m.mu.Lock()
	had := m.user != nil || m.token != ""
	m.setSessionLocked(nil, "")
	m.lastError = ""
	m.mu.Unlock()

	m.authorizer.ClearToken()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("token store clear failed")
	}
	return had
}

// forceLogout runs on the authorizer's unauthorized callback. Authorization
// expiry is handled entirely here and never surfaces as an operation result.
func (m *SessionManager) forceLogout() {
	if m.logoutInternal(context.Background()) {
		metrics.ForcedLogoutsTotal.Inc()
		m.log.Warn().Msg("authorization expired, session cleared")
	}
}

// requireAuthenticated checks the precondition of authenticated-only
// operations. Violations are programming errors on the caller's side and
// are logged as such.
func (m *SessionManager) requireAuthenticated(op string) bool {
	m.mu.Lock()
	ok := domain.DeriveStatus(m.user, m.token, m.booting) == domain.StatusAuthenticated
	m.mu.Unlock()

	if !ok {
		m.log.Error().Str("operation", op).Msg("operation requires an authenticated session")
	}
	return ok
}

// fail records msg as the session's last error and returns the matching
// failed Result.
func (m *SessionManager) fail(msg string) domain.Result {
	m.mu.Lock()
	m.lastError = msg
	m.mu.Unlock()
	return domain.Fail(msg)
}

// checkInput validates an input struct and returns a human-readable message
// for the first violation, or "" when the input is fine.
func (m *SessionManager) checkInput(in any) string {
	err := m.validate.Struct(in)
	if err == nil {
		return ""
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fieldError(ve[0])
	}
	return err.Error()
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// failureMessage maps an operation error to the message surfaced to the UI:
// the server's own message when it sent one, the fallback otherwise.
func failureMessage(err error, fallback string) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
