package memory

import (
	"context"
	"sync"
	"time"
)

// TokenStorage is the in-process access-token denylist used when the service
// runs without Redis.
type TokenStorage struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewTokenStorage() *TokenStorage {
	return &TokenStorage{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *TokenStorage) InvalidateToken(_ context.Context, jti string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[jti] = s.now().Add(expiration)
	return nil
}

func (s *TokenStorage) IsTokenInvalidated(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}
