// Command cineai is a terminal client for the CineAI API. It signs in,
// keeps the session across invocations through the persistent token store,
// and exposes the chat, video and settings surfaces. `cineai serve` runs the
// bundled development server instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/core/ports"
	"github.com/cineai/cineai-go/internal/core/service"
	"github.com/cineai/cineai-go/internal/devserver"
	"github.com/cineai/cineai-go/internal/devserver/repository"
	"github.com/cineai/cineai-go/internal/infrastructure/store"
	"github.com/cineai/cineai-go/internal/pkg/config"
	"github.com/cineai/cineai-go/internal/transport"
	"github.com/cineai/cineai-go/pkg/logger"
)

const usage = `usage: cineai <command> [flags]

session:
  login -email <email> -password <password>
  register -name <name> -email <email> -password <password>
  logout
  whoami
  profile [-name <name>] [-bio <bio>]
  passwd -current <password> -new <password>

chat:
  chat -message <text> [-conversation <id>] [-model <id>]
  conversations

video:
  videos
  video-create -title <title> [-prompt <prompt>]
  video-generate -id <id>
  video-status -id <id>

other:
  settings
  health
  serve
`

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	if cmd == "serve" {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := runServe(ctx, cfg, log); err != nil {
			log.Fatal().Err(err).Msg("devserver failed")
		}
		return
	}

	if err := runClient(ctx, cfg, log, cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runServe runs the bundled development server.
func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	opts := devserver.Options{
		JWTSecret:   cfg.Dev.JWTSecret,
		SeedAdmin:   cfg.Dev.SeedAdmin,
		RenderDelay: 2 * time.Second,
		Log:         log,
	}

	if cfg.Dev.MongoURI != "" {
		client, db, err := repository.ConnectMongo(ctx, repository.MongoConfig{
			URI:      cfg.Dev.MongoURI,
			Database: cfg.Dev.MongoDB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		opts.Accounts = repository.NewMongoAccounts(db)
		opts.Ping = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	srv, err := devserver.New(opts)
	if err != nil {
		return err
	}
	return srv.Start(ctx, ":"+cfg.Dev.Port)
}

// runClient wires store → client → session manager, bootstraps the session
// and dispatches the command.
func runClient(ctx context.Context, cfg *config.Config, log zerolog.Logger, cmd string, args []string) error {
	tokens, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := transport.NewClient(cfg.APIURL,
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithLogger(log),
	)
	if err != nil {
		return err
	}

	manager := service.NewSessionManager(client, tokens, client.Authorizer(), log)
	defer manager.Close()
	manager.Bootstrap(ctx)

	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		return report(manager.Login(ctx, *email, *password), manager)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		return report(manager.Register(ctx, *name, *email, *password), manager)

	case "logout":
		manager.Logout(ctx)
		fmt.Println("signed out")
		return nil

	case "whoami":
		session := manager.Session()
		if !session.Authenticated() {
			return fmt.Errorf("not signed in")
		}
		return printJSON(session.User)

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		name := fs.String("name", "", "new display name")
		bio := fs.String("bio", "", "new bio")
		_ = fs.Parse(args)

		var update domain.ProfileUpdate
		if *name != "" {
			update.Name = name
		}
		if *bio != "" {
			update.Bio = bio
		}
		return report(manager.UpdateProfile(ctx, update), manager)

	case "passwd":
		fs := flag.NewFlagSet("passwd", flag.ExitOnError)
		current := fs.String("current", "", "current password")
		next := fs.String("new", "", "new password")
		_ = fs.Parse(args)
		return report(manager.ChangePassword(ctx, *current, *next), manager)

	case "chat":
		fs := flag.NewFlagSet("chat", flag.ExitOnError)
		message := fs.String("message", "", "message to send")
		conversation := fs.String("conversation", "", "conversation id")
		model := fs.String("model", "", "preferred model")
		_ = fs.Parse(args)

		reply, err := client.SendMessage(ctx, domain.ChatRequest{
			Message:        *message,
			ConversationID: *conversation,
			PreferModel:    *model,
		})
		if err != nil {
			return err
		}
		return printJSON(reply)

	case "conversations":
		conversations, err := client.Conversations(ctx)
		if err != nil {
			return err
		}
		return printJSON(conversations)

	case "videos":
		videos, err := client.Videos(ctx)
		if err != nil {
			return err
		}
		return printJSON(videos)

	case "video-create":
		fs := flag.NewFlagSet("video-create", flag.ExitOnError)
		title := fs.String("title", "", "video title")
		prompt := fs.String("prompt", "", "generation prompt")
		_ = fs.Parse(args)

		video, err := client.CreateVideo(ctx, domain.VideoInput{Title: *title, Prompt: *prompt})
		if err != nil {
			return err
		}
		return printJSON(video)

	case "video-generate":
		fs := flag.NewFlagSet("video-generate", flag.ExitOnError)
		id := fs.Int("id", 0, "video id")
		_ = fs.Parse(args)

		if err := client.GenerateVideo(ctx, *id); err != nil {
			return err
		}
		fmt.Println("render queued")
		return nil

	case "video-status":
		fs := flag.NewFlagSet("video-status", flag.ExitOnError)
		id := fs.Int("id", 0, "video id")
		_ = fs.Parse(args)

		video, err := client.VideoStatus(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(video)

	case "settings":
		settings, validation, err := client.Settings(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"config": settings, "validation": validation})

	case "health":
		if err := client.Health(ctx); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// buildStore picks the token store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, func(), error) {
	noop := func() {}

	switch cfg.TokenStore {
	case "file", "":
		path := cfg.TokenPath
		if path == "" {
			var err error
			if path, err = store.DefaultFilePath(); err != nil {
				return nil, nil, err
			}
		}
		return store.NewFile(path), noop, nil

	case "bolt":
		path := cfg.TokenPath
		if path == "" {
			base, err := store.DefaultFilePath()
			if err != nil {
				return nil, nil, err
			}
			path = base + ".db"
		}
		b, err := store.OpenBolt(path)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil

	case "redis":
		client, err := store.ConnectRedis(ctx, store.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client, cfg.Redis.Key), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown token store backend %q", cfg.TokenStore)
	}
}

// report prints an operation Result, surfacing the session's view of it.
func report(res domain.Result, manager *service.SessionManager) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	session := manager.Session()
	if session.User != nil {
		return printJSON(session.User)
	}
	fmt.Println("ok")
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
