package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("TokenTTL = %s, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.JWTSecret != "" || cfg.Redis.Addr != "" {
		t.Fatalf("secret and redis should default to empty: %+v", cfg)
	}
	if cfg.Redis.StudentTTL != 10*time.Minute {
		t.Fatalf("StudentTTL = %s", cfg.Redis.StudentTTL)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development profile by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":    "Postgres",
		"TOKEN_TTL":       "15m",
		"PASSWORD_HASHER": "argon2id",
		"REDIS_ADDR":      "cache:6379",
		"ENV":             "production",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute || cfg.Auth.PasswordHasher != "argon2id" {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.IsDevelopment() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"driver":   {"STORE_DRIVER": "sqlite"},
		"ttl":      {"TOKEN_TTL": "0s"},
		"bad ttl":  {"TOKEN_TTL": "soon"},
		"bad cost": {"BCRYPT_COST": "high"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}
