package service

import (
	"context"
	"fmt"

	"github.com/authgate/authgate/internal/core/auth"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// SessionManager implements ports.SessionManager over any auth.SessionStore.
// The store decides where tokens live (memory, Redis, or the user row via
// auth.UserRowStore); this type only adds the email→user resolution around
// it.
type SessionManager struct {
	repo  ports.UserRepository
	store auth.SessionStore
}

func NewSessionManager(repo ports.UserRepository, store auth.SessionStore) *SessionManager {
	return &SessionManager{repo: repo, store: store}
}

func (m *SessionManager) Issue(ctx context.Context, email string) (string, error) {
	user, err := m.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := m.store.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := m.store.Lookup(ctx, token)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return m.repo.FindByID(ctx, userID)
}

func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	m.store.Destroy(ctx, token)
	return nil
}
