// ABOUTME: Shared helpers for middleware tests
// ABOUTME: Builds token services and signed cookies

package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/cache"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

func newAuthConfig(t *testing.T, mode AuthMode) AuthConfig {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)
	return AuthConfig{
		Mode:     mode,
		Tokens:   services.NewTokenService("middleware-test", time.Hour),
		Sessions: services.NewSessionService(c),
	}
}

func sessionCookie(t *testing.T, cfg AuthConfig, u *models.User) (*http.Cookie, *services.TokenClaims) {
	t.Helper()
	token, claims, err := cfg.Tokens.Issue(u)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return &http.Cookie{Name: SessionCookieName, Value: token}, claims
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
