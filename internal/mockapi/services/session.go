// ABOUTME: Server-side session revocation backed by the TTL cache
// ABOUTME: A logged-out token stays rejected until it would have expired anyway

package services

import (
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/cache"
)

// SessionService tracks revoked token IDs
type SessionService struct {
	cache *cache.Cache
}

// NewSessionService creates a new session service
func NewSessionService(c *cache.Cache) *SessionService {
	return &SessionService{cache: c}
}

// Revoke rejects tokenID until expiresAt
func (s *SessionService) Revoke(tokenID string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	s.cache.SetWithTTL(revokedKey(tokenID), true, ttl)
}

// IsRevoked reports whether tokenID was logged out
func (s *SessionService) IsRevoked(tokenID string) bool {
	_, ok := s.cache.Get(revokedKey(tokenID))
	return ok
}

// revokedKey returns the cache key for a token ID
func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}
