package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/hr-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret")

	token, exp, err := tm.GenerateToken("identity-1", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry in the past: %v", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.IdentityID != "identity-1" {
		t.Fatalf("expected identity-1, got %s", claims.IdentityID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a").GenerateToken("identity-1", domain.RoleEmployee, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewTokenManager("secret-b").ParseToken(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestGenerateTokenClampsNonPositiveTTL(t *testing.T) {
	tm := NewTokenManager("secret")

	token, exp, err := tm.GenerateToken("identity-1", domain.RoleEmployee, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("clamped TTL should push expiry into the future: %v", exp)
	}
	if _, err := tm.ParseToken(token); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	if _, err := NewTokenManager("secret").ParseToken("not-a-jwt"); err == nil {
		t.Fatal("expected parse failure for malformed token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pass123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pass123" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := ComparePassword(hash, "pass123"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
