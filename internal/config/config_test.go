package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("HRSYS_SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when HRSYS_SECRET_KEY is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HRSYS_SECRET_KEY", "test-secret")
	t.Setenv("HRSYS_ADDR", "")
	t.Setenv("HRSYS_TOKEN_TTL_MINUTES", "")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", s.Addr)
	}
	if s.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", s.TokenTTL)
	}
}

func TestLoadTokenTTL(t *testing.T) {
	t.Setenv("HRSYS_SECRET_KEY", "test-secret")

	t.Setenv("HRSYS_TOKEN_TTL_MINUTES", "90")
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.TokenTTL != 90*time.Minute {
		t.Errorf("TokenTTL = %v, want 90m", s.TokenTTL)
	}

	for _, bad := range []string{"0", "-5", "soon"} {
		t.Setenv("HRSYS_TOKEN_TTL_MINUTES", bad)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for TTL %q", bad)
		}
	}
}
