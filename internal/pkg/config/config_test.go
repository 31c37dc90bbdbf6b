package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIURL != "http://localhost:5000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.TokenStore != "file" {
		t.Fatalf("TokenStore = %q", cfg.TokenStore)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.Dev.Port != "5000" || !cfg.Dev.SeedAdmin {
		t.Fatalf("dev defaults: %+v", cfg.Dev)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CINEAI_API_URL", "https://api.cineai.example")
	t.Setenv("CINEAI_TOKEN_STORE", "redis")
	t.Setenv("CINEAI_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("CINEAI_HTTP_TIMEOUT", "5s")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIURL != "https://api.cineai.example" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.TokenStore != "redis" {
		t.Fatalf("TokenStore = %q", cfg.TokenStore)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Fatalf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
}
