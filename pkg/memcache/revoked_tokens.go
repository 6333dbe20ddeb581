// pkg/memcache/revoked_tokens.go
package memcache

import (
	"sync"
	"time"
)

type RevokedTokenStore interface {
	// Revoke remembers token id until expiresAt. After that the token is
	// rejected by its own expiry and the entry can be dropped.
	Revoke(tokenID string, expiresAt time.Time)

	IsRevoked(tokenID string) bool

	// Sweep removes expired entries and returns how many were dropped.
	Sweep() int
}

type RevokedTokens struct {
	mu   sync.RWMutex
	data map[string]time.Time
	now  func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (s *RevokedTokens) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tokenID] = expiresAt
}

func (s *RevokedTokens) IsRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.data[tokenID]
	if !ok {
		return false
	}
	return s.now().Before(exp)
}

func (s *RevokedTokens) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, exp := range s.data {
		if !now.Before(exp) {
			delete(s.data, id) // expired tokens fail validation on their own
			n++
		}
	}
	return n
}
