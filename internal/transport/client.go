// Package transport implements the HTTP client for the CineAI API: a REST
// client speaking the CineAI wire format, and the Authorizer through which
// every one of its requests is dispatched.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/metrics"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is read when looking
	// for the {"error": ...} envelope.
	maxErrorBody = 64 << 10
)

// Client is the CineAI REST client. It satisfies the AccountAPI, ChatAPI,
// VideoAPI and SettingsAPI ports. All requests go through its Authorizer,
// which attaches the current bearer token and observes unauthorized
// responses.
type Client struct {
	baseURL    string
	httpc      *http.Client
	authorizer *Authorizer
	log        zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.Timeout = d
		}
	}
}

// WithBaseTransport replaces the transport the Authorizer wraps. Intended
// for tests and instrumentation.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.authorizer = NewAuthorizer(rt)
		c.httpc.Transport = c.authorizer
	}
}

// WithLogger attaches a logger; without it the client stays silent.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("transport: base URL is required")
	}

	authorizer := NewAuthorizer(nil)
	c := &Client{
		baseURL:    baseURL,
		authorizer: authorizer,
		httpc: &http.Client{
			Transport: authorizer,
			Timeout:   defaultTimeout,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authorizer exposes the credential hook so the session manager can
// configure it. No other component should touch it.
func (c *Client) Authorizer() *Authorizer {
	return c.authorizer
}

// do issues one JSON request. route is the logical template used as the
// metrics label; path is the concrete URL path. A non-2xx status decodes the
// error envelope into *domain.APIError.
func (c *Client) do(ctx context.Context, method, path, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("transport: encode %s %s: %w", method, route, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("transport: build %s %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(route, "error").Inc()
		return fmt.Errorf("transport: %s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.RequestsTotal.WithLabelValues(route, "rejected").Inc()
		return c.decodeError(method, route, resp)
	}

	metrics.RequestsTotal.WithLabelValues(route, "ok").Inc()
	c.log.Debug().Str("method", method).Str("route", route).Int("status", resp.StatusCode).Msg("request ok")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("transport: decode %s %s: %w", method, route, err)
	}
	return nil
}

// decodeError turns a non-2xx response into *domain.APIError, keeping the
// server's message when the body carries the error envelope.
func (c *Client) decodeError(method, route string, resp *http.Response) error {
	var env errorEnvelope
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		_ = json.Unmarshal(raw, &env)
	}

	c.log.Debug().
		Str("method", method).
		Str("route", route).
		Int("status", resp.StatusCode).
		Str("error", env.Error).
		Msg("request rejected")

	return &domain.APIError{Status: resp.StatusCode, Message: env.Error}
}

// ── AccountAPI ───────────────────────────────────────────────────────────────

func (c *Client) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	var env authEnvelope
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "/api/auth/login",
		loginRequest{Email: email, Password: password}, &env)
	if err != nil {
		return nil, "", err
	}
	return env.User, env.Token, nil
}

func (c *Client) CreateAccount(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	var env authEnvelope
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "/api/auth/register",
		registerRequest{Name: name, Email: email, Password: password}, &env)
	if err != nil {
		return nil, "", err
	}
	return env.User, env.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", "/api/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", "/api/auth/profile", update, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/change-password", "/api/auth/change-password",
		changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// ── ChatAPI ──────────────────────────────────────────────────────────────────

func (c *Client) SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	var env chatEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/chat/send", "/api/chat/send", req, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	var env conversationsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/chat/conversations", "/api/chat/conversations", nil, &env); err != nil {
		return nil, err
	}
	return env.Conversations, nil
}

func (c *Client) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var env conversationEnvelope
	err := c.do(ctx, http.MethodGet, "/api/chat/conversations/"+id, "/api/chat/conversations/:id", nil, &env)
	if err != nil {
		return nil, err
	}
	return env.Conversation, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/conversations/"+id, "/api/chat/conversations/:id", nil, nil)
}

func (c *Client) Models(ctx context.Context) ([]domain.ChatModel, error) {
	var env modelsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/chat/models", "/api/chat/models", nil, &env); err != nil {
		return nil, err
	}
	return env.Models, nil
}

// ── VideoAPI ─────────────────────────────────────────────────────────────────

func (c *Client) Videos(ctx context.Context) ([]domain.Video, error) {
	var env videosEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/video/", "/api/video/", nil, &env); err != nil {
		return nil, err
	}
	return env.Videos, nil
}

func (c *Client) Video(ctx context.Context, id int) (*domain.Video, error) {
	var env videoEnvelope
	err := c.do(ctx, http.MethodGet, "/api/video/"+strconv.Itoa(id), "/api/video/:id", nil, &env)
	if err != nil {
		return nil, err
	}
	return env.Video, nil
}

func (c *Client) CreateVideo(ctx context.Context, in domain.VideoInput) (*domain.Video, error) {
	var env videoEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/video/", "/api/video/", in, &env); err != nil {
		return nil, err
	}
	return env.Video, nil
}

func (c *Client) GenerateVideo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, "/api/video/"+strconv.Itoa(id)+"/generate", "/api/video/:id/generate", nil, nil)
}

func (c *Client) VideoStatus(ctx context.Context, id int) (*domain.Video, error) {
	var env videoEnvelope
	err := c.do(ctx, http.MethodGet, "/api/video/"+strconv.Itoa(id)+"/status", "/api/video/:id/status", nil, &env)
	if err != nil {
		return nil, err
	}
	return env.Video, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/video/"+strconv.Itoa(id), "/api/video/:id", nil, nil)
}

// ── SettingsAPI ──────────────────────────────────────────────────────────────

func (c *Client) Settings(ctx context.Context) (domain.Settings, domain.SettingsValidation, error) {
	var env settingsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/settings/config", "/api/settings/config", nil, &env); err != nil {
		return nil, nil, err
	}
	return env.Data.Config, env.Data.Validation, nil
}

func (c *Client) UpdateSettings(ctx context.Context, values domain.Settings) (domain.SettingsValidation, error) {
	var env settingsEnvelope
	err := c.do(ctx, http.MethodPut, "/api/settings/config", "/api/settings/config",
		settingsUpdateRequest(values), &env)
	if err != nil {
		return nil, err
	}
	return env.Data.Validation, nil
}

// ── Health ───────────────────────────────────────────────────────────────────

// Health reports whether the API answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", "/api/health", nil, nil)
}
