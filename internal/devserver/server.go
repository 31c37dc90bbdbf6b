// Package devserver is a CineAI-compatible reference API: the same wire
// format the real backend speaks, with simulated chat and video providers
// behind it. It exists so the client SDK can be developed and integration
// tested without the production service.
package devserver

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cineai/cineai-go/internal/devserver/queue"
	"github.com/cineai/cineai-go/internal/devserver/repository"
)

const version = "1.0.0"

const tokenTTL = 24 * time.Hour

// Seed credentials for the default admin account (SeedAdmin option).
const (
	SeedAdminEmail    = "admin@cineai.com"
	SeedAdminPassword = "admin123"
	seedAdminName     = "Admin"
)

// Options configures a Server.
type Options struct {
	JWTSecret string
	// Accounts defaults to the in-memory repository when nil.
	Accounts repository.Accounts
	// Ping reports storage health for the readiness probe. Nil means
	// always ready.
	Ping func(ctx context.Context) error
	// RenderDelay is the pause between simulated render steps. Zero renders
	// complete instantly.
	RenderDelay time.Duration
	// SeedAdmin creates the default admin account at startup.
	SeedAdmin bool
	Log       zerolog.Logger
}

// Server bundles the router and the devserver's state.
type Server struct {
	echo          *echo.Echo
	accounts      repository.Accounts
	conversations *repository.Conversations
	videos        *repository.Videos
	queue         *queue.RenderQueue
	settings      *settingsStore
	ping          func(ctx context.Context) error
	jwtSecret     string
	tokenTTL      time.Duration
	log           zerolog.Logger
}

// New builds a Server with all routes registered. Call Start to launch the
// render workers and serve.
func New(opts Options) (*Server, error) {
	accounts := opts.Accounts
	if accounts == nil {
		accounts = repository.NewMemoryAccounts()
	}

	videos := repository.NewVideos()
	s := &Server{
		accounts:      accounts,
		conversations: repository.NewConversations(),
		videos:        videos,
		queue:         queue.NewRenderQueue(0, videos, opts.RenderDelay, opts.Log),
		settings:      newSettingsStore(),
		ping:          opts.Ping,
		jwtSecret:     opts.JWTSecret,
		tokenTTL:      tokenTTL,
		log:           opts.Log,
	}

	if opts.SeedAdmin {
		if err := s.seedAdmin(); err != nil {
			return nil, err
		}
	}

	s.echo = s.router()
	return s, nil
}

// router builds the Echo instance with all routes registered.
func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(s.log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// Per-server registry so several instances can coexist in one process.
	registry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cineai_dev",
		Registerer: registry,
	}))

	auth := authRequired(s.jwtSecret)
	admin := adminRequired()

	// --- Auth routes ---
	e.POST("/api/auth/register", s.handleRegister)
	e.POST("/api/auth/login", s.handleLogin)
	e.POST("/api/auth/logout", s.handleLogout, auth)
	e.GET("/api/auth/me", s.handleMe, auth)
	e.PUT("/api/auth/profile", s.handleUpdateProfile, auth)
	e.POST("/api/auth/change-password", s.handleChangePassword, auth)

	// --- Chat routes ---
	e.POST("/api/chat/send", s.handleChatSend, auth)
	e.GET("/api/chat/conversations", s.handleConversations, auth)
	e.GET("/api/chat/conversations/:id", s.handleConversation, auth)
	e.DELETE("/api/chat/conversations/:id", s.handleDeleteConversation, auth)
	e.GET("/api/chat/models", s.handleModels, auth)

	// --- Video routes ---
	e.GET("/api/video/", s.handleVideos, auth)
	e.POST("/api/video/", s.handleCreateVideo, auth)
	e.GET("/api/video/:id", s.handleVideo, auth)
	e.POST("/api/video/:id/generate", s.handleGenerateVideo, auth)
	e.GET("/api/video/:id/status", s.handleVideoStatus, auth)
	e.DELETE("/api/video/:id", s.handleDeleteVideo, auth)

	// --- Settings routes ---
	e.GET("/api/settings/config", s.handleSettings, auth)
	e.PUT("/api/settings/config", s.handleUpdateSettings, auth, admin)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/health/ready", s.handleReady)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))

	return e
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

// StartWorkers launches the render queue. Workers stop when ctx ends.
func (s *Server) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// Start launches workers and serves on addr until ctx ends or the listener
// fails.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.StartWorkers(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.echo.Start(addr) }()
	s.log.Info().Str("addr", addr).Msg("devserver listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// seedAdmin creates the default admin account, ignoring the duplicate when
// the backing store already has it.
func (s *Server) seedAdmin() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.accounts.Create(context.Background(), &repository.Account{
		Name:         seedAdminName,
		Email:        SeedAdminEmail,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("admin seed skipped")
	}
	return nil
}
