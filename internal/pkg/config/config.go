package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full client configuration, read from CINEAI_* environment
// variables.
type Config struct {
	APIURL      string        `env:"CINEAI_API_URL,      default=http://localhost:5000"`
	LogLevel    string        `env:"CINEAI_LOG_LEVEL,    default=info"`
	LogPretty   bool          `env:"CINEAI_LOG_PRETTY,   default=true"`
	HTTPTimeout time.Duration `env:"CINEAI_HTTP_TIMEOUT, default=30s"`

	// TokenStore picks the durable token backend: file, bolt or redis.
	TokenStore string `env:"CINEAI_TOKEN_STORE, default=file"`
	// TokenPath is the file (file backend) or database (bolt backend)
	// location. Empty means the default under the user config dir.
	TokenPath string `env:"CINEAI_TOKEN_PATH"`

	Redis RedisConfig
	Dev   DevConfig
}

// RedisConfig configures the redis token store backend.
type RedisConfig struct {
	Addr string `env:"CINEAI_REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"CINEAI_REDIS_DB,   default=0"`
	Key  string `env:"CINEAI_REDIS_KEY"`
}

// DevConfig configures the bundled development server (`cineai serve`).
type DevConfig struct {
	Port      string `env:"CINEAI_DEV_PORT,       default=5000"`
	JWTSecret string `env:"CINEAI_DEV_JWT_SECRET, default=cineai-dev-secret"`
	// MongoURI switches the devserver's account storage from in-memory to
	// MongoDB when set.
	MongoURI string `env:"CINEAI_DEV_MONGO_URI"`
	MongoDB  string `env:"CINEAI_DEV_MONGO_DB,   default=cineai_dev"`
	// SeedAdmin creates the default admin@cineai.com account at startup.
	SeedAdmin bool `env:"CINEAI_DEV_SEED_ADMIN, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
