package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyUserID is returned by Create when no user id is supplied.
var ErrEmptyUserID = errors.New("session store: empty user id")

// SessionStore maps opaque session tokens to user ids. Implementations must
// be safe for concurrent use; the in-memory variant below is process-local
// while the Redis variant in internal/infrastructure/db/redis shares sessions
// across replicas.
type SessionStore interface {
	// Create issues a fresh token bound to userID.
	Create(ctx context.Context, userID string) (string, error)
	// Lookup returns the user id bound to token, or false when the token was
	// never issued, was destroyed, or has expired.
	Lookup(ctx context.Context, token string) (string, bool)
	// Destroy removes the binding. Destroying an absent token reports false
	// and is otherwise a no-op.
	Destroy(ctx context.Context, token string) bool
}

type sessionEntry struct {
	userID    string
	expiresAt time.Time // zero = never expires
}

// MemoryStore is the in-memory SessionStore. Tokens are v4 UUIDs, so
// collisions across live entries are negligible.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	ttl     time.Duration
}

// NewMemoryStore creates a MemoryStore. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	token := uuid.NewString()

	entry := sessionEntry{userID: userID}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[token] = entry
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		// Lazy expiry: drop the stale entry on first sight.
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return "", false
	}
	return entry.userID, true
}

func (s *MemoryStore) Destroy(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[token]; !ok {
		return false
	}
	delete(s.entries, token)
	return true
}

// Len reports the number of live entries, counting expired ones not yet
// swept. Used by metrics and tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartJanitor sweeps expired entries every interval until ctx is cancelled.
// Lookup already drops stale entries lazily; the janitor bounds memory for
// tokens nobody ever presents again.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.sweep(now)
			}
		}
	}()
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}
