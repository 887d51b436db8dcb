package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/authgate/authgate/internal/core/ports"
)

// UserRowStore implements SessionStore on the user row itself: the token is
// written to the session_id column, so each user has at most one live
// session and sessions survive restarts along with the user table. This is
// the alternate binding to the registry stores; pick one per deployment via
// SESSION_STORE.
type UserRowStore struct {
	users ports.UserRepository
}

func NewUserRowStore(users ports.UserRepository) *UserRowStore {
	return &UserRowStore{users: users}
}

func (s *UserRowStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	token := uuid.NewString()
	if err := s.users.Update(ctx, userID, map[string]any{
		ports.FieldSessionID: token,
	}); err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserRowStore) Lookup(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	user, err := s.users.FindBySessionID(ctx, token)
	if err != nil {
		return "", false
	}
	return user.ID, true
}

func (s *UserRowStore) Destroy(ctx context.Context, token string) bool {
	user, err := s.users.FindBySessionID(ctx, token)
	if err != nil {
		return false
	}
	if err := s.users.Update(ctx, user.ID, map[string]any{
		ports.FieldSessionID: "",
	}); err != nil {
		return false
	}
	return true
}
