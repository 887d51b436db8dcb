package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// SessionManager is the session lifecycle consumed by the login and logout
// endpoints. It sits on top of whichever session binding the deployment
// selected (in-memory registry, Redis registry, or user-row column).
type SessionManager interface {
	// Issue creates a session for the user with the given email and returns
	// its token. Returns domain.ErrUserNotFound for an unknown email.
	Issue(ctx context.Context, email string) (string, error)

	// Resolve returns the user behind a live session token, or
	// domain.ErrUserNotFound.
	Resolve(ctx context.Context, token string) (*domain.User, error)

	// Revoke destroys the session behind token. Revoking an unknown token is
	// a no-op.
	Revoke(ctx context.Context, token string) error
}
