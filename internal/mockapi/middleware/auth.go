// ABOUTME: Session cookie authentication middleware
// ABOUTME: Verifies the signed jwt-token cookie and puts the caller's claims in the request context

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

// SessionCookieName is the cookie the server issues at login
const SessionCookieName = "jwt-token"

// AuthMode defines how authentication is enforced
type AuthMode string

const (
	// AuthModeOptional attaches claims when a valid cookie is present
	AuthModeOptional AuthMode = "optional"
	// AuthModeRequired rejects requests without a valid cookie
	AuthModeRequired AuthMode = "required"
)

// AuthConfig holds authentication middleware settings
type AuthConfig struct {
	Mode     AuthMode
	Tokens   *services.TokenService
	Sessions *services.SessionService
}

// UserClaims identifies the caller
type UserClaims struct {
	UserID    int64
	Username  string
	Roles     []string
	TokenID   string
	ExpiresAt time.Time
}

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const userClaimsKey contextKey = "userClaims"

// Auth returns middleware that validates the session cookie. In optional
// mode a missing or stale cookie is treated as an anonymous caller.
func Auth(cfg AuthConfig) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, reason := authenticate(cfg, r)
			if claims != nil {
				ctx := context.WithValue(r.Context(), userClaimsKey, claims)
				next(w, r.WithContext(ctx))
				return
			}

			if cfg.Mode == AuthModeRequired {
				slog.Debug("Auth rejected", "path", r.URL.Path, "reason", reason)
				WriteJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

func authenticate(cfg AuthConfig, r *http.Request) (*UserClaims, string) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, "no session cookie"
	}
	if cfg.Tokens == nil {
		return nil, "token service not configured"
	}

	tc, err := cfg.Tokens.Parse(cookie.Value)
	if err != nil {
		return nil, err.Error()
	}
	if cfg.Sessions != nil && cfg.Sessions.IsRevoked(tc.ID) {
		return nil, "session revoked"
	}

	userID, _ := tc.UserID()
	claims := &UserClaims{
		UserID:   userID,
		Username: tc.Username,
		Roles:    tc.Roles,
		TokenID:  tc.ID,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, ""
}

// GetUserClaims extracts user claims from request context.
// Returns nil if no claims are present.
func GetUserClaims(r *http.Request) *UserClaims {
	claims, ok := r.Context().Value(userClaimsKey).(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}
