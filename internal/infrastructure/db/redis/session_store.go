package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/authgate/authgate/internal/core/auth"
)

// SessionStore implements auth.SessionStore on Redis so replicas behind a
// load balancer see the same sessions. Key format: session:<token>.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps the given Redis client. ttl <= 0 stores sessions
// without expiry.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", auth.ErrEmptyUserID
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), userID, s.expiry()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		return "", false
	}
	return userID, true
}

func (s *SessionStore) Destroy(ctx context.Context, token string) bool {
	n, err := s.client.Del(ctx, s.key(token)).Result()
	return err == nil && n > 0
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}

func (s *SessionStore) expiry() time.Duration {
	if s.ttl <= 0 {
		return 0 // redis: no expiration
	}
	return s.ttl
}
