package auth

import (
	"errors"
	"testing"
	"time"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := NewAccessToken("user-1", "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != "visuaforge" {
		t.Errorf("unexpected issuer %q", claims.Issuer)
	}
}

func TestAccessToken_Expired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := NewAccessToken("user-1", "alice@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseAccessToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	token, err := NewAccessToken("user-1", "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	t.Setenv("SESSION_SECRET", "other-secret")
	if _, err := ParseAccessToken(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestAccessToken_Garbage(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	if _, err := ParseAccessToken("not.a.token"); err == nil {
		t.Error("expected error for a malformed token")
	}
}

func TestAccessToken_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := NewAccessToken("user-1", "a@example.com", time.Hour); !errors.Is(err, ErrMissingSessionSecret) {
		t.Errorf("expected ErrMissingSessionSecret, got %v", err)
	}
	if _, err := ParseAccessToken("whatever"); !errors.Is(err, ErrMissingSessionSecret) {
		t.Errorf("expected ErrMissingSessionSecret, got %v", err)
	}
}
