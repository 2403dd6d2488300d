package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTokensRequiresSecret(t *testing.T) {
	if _, err := NewTokens(""); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewTokens("   "); err == nil {
		t.Error("expected error for blank secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, expiresAt, err := tokens.Issue("alice", []string{"employee", "manager"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if expiresAt.Before(time.Now()) {
		t.Error("expiry must be in the future")
	}
	subject, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want alice", subject)
	}
}

func TestTokenExpiry(t *testing.T) {
	clock := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := clock
	tokens, err := NewTokens("test-secret",
		WithTTL(30*time.Minute),
		WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, expiresAt, err := tokens.Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got, want := expiresAt, clock.Add(30*time.Minute); !got.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", got, want)
	}

	// Just before expiry the token verifies.
	now = clock.Add(29 * time.Minute)
	if _, err := tokens.Verify(signed); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	// After expiry it does not.
	now = clock.Add(31 * time.Minute)
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify after expiry = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTamperRejected(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, _, err := tokens.Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one byte in the payload segment.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d segments", len(parts))
	}
	payload := []byte(parts[1])
	if payload[5] == 'A' {
		payload[5] = 'B'
	} else {
		payload[5] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tokens.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(tampered) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer, _ := NewTokens("secret-one")
	verifier, _ := NewTokens("secret-two")
	signed, _, err := issuer.Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	tokens, _ := NewTokens("test-secret")
	for _, raw := range []string{"", "   ", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}
