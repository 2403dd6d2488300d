package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr            = ":8080"
	defaultTokenTTLMinutes = 30
)

// Settings is the process-wide configuration, loaded once at startup.
type Settings struct {
	// Addr is the HTTP listen address.
	Addr string
	// PGDSN is the PostgreSQL connection string; empty disables the store
	// (health endpoints still serve).
	PGDSN string
	// SecretKey signs bearer tokens. Required: startup fails without it,
	// and rotating it invalidates all previously issued tokens.
	SecretKey string
	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration
	// FirstSuperuser / FirstSuperuserPassword seed the bootstrap account.
	// Used only at startup, never consulted afterwards.
	FirstSuperuser         string
	FirstSuperuserPassword string
}

// Load reads settings from the environment, with .env / .env.local overlays
// for development. The signing secret has no default.
func Load() (Settings, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	s := Settings{
		Addr:                   envOr("HRSYS_ADDR", defaultAddr),
		PGDSN:                  os.Getenv("HRSYS_PG_DSN"),
		SecretKey:              strings.TrimSpace(os.Getenv("HRSYS_SECRET_KEY")),
		TokenTTL:               time.Duration(defaultTokenTTLMinutes) * time.Minute,
		FirstSuperuser:         strings.TrimSpace(os.Getenv("HRSYS_FIRST_SUPERUSER")),
		FirstSuperuserPassword: os.Getenv("HRSYS_FIRST_SUPERUSER_PASSWORD"),
	}
	if s.SecretKey == "" {
		return Settings{}, errors.New("config: HRSYS_SECRET_KEY is required")
	}
	if raw := strings.TrimSpace(os.Getenv("HRSYS_TOKEN_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Settings{}, fmt.Errorf("config: HRSYS_TOKEN_TTL_MINUTES must be a positive integer, got %q", raw)
		}
		s.TokenTTL = time.Duration(minutes) * time.Minute
	}
	return s, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
