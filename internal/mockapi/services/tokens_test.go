// ABOUTME: Tests for session token signing, revocation and password hashing
// ABOUTME: Covers tampering, expiry and algorithm confusion

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gursheyss/cs157a/internal/mockapi/cache"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &models.User{ID: 42, Username: "sparty", Roles: []string{models.RoleUser}}

	token, issued, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	id, _ := claims.UserID()
	if id != 42 || claims.Username != "sparty" || claims.ID != issued.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_RejectsTampered(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	token, _, _ := svc.Issue(&models.User{ID: 1, Username: "a"})

	other := NewTokenService("other-secret", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Error("expected signature failure with wrong secret")
	}

	parts := strings.Split(token, ".")
	parts[1] = parts[1] + "x"
	if _, err := svc.Parse(strings.Join(parts, ".")); err == nil {
		t.Error("expected failure for modified payload")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _ := svc.Issue(&models.User{ID: 1, Username: "a"})

	svc.now = time.Now
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected expired token rejected")
	}
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	claims := &TokenClaims{Username: "a", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected unsigned token rejected")
	}
}

func TestSessionService_Revoke(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Stop()
	svc := NewSessionService(c)

	if svc.IsRevoked("abc") {
		t.Error("fresh token must not be revoked")
	}
	svc.Revoke("abc", time.Now().Add(time.Hour))
	if !svc.IsRevoked("abc") {
		t.Error("expected token revoked")
	}
}

func TestHasher(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !h.Check(hash, "secret123") {
		t.Error("expected password to match")
	}
	if h.Check(hash, "wrong") {
		t.Error("expected mismatch")
	}
}
