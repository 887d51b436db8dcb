package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// AuthService implements the credential and session lifecycle consumed by the
// login, registration, and password-reset endpoints.
type AuthService interface {
	// Register creates a new user with a hashed password. Returns
	// domain.ErrUserExists when the email is already registered.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// ValidLogin reports whether the email/password pair matches a stored
	// user. Unknown users and wrong passwords both report false.
	ValidLogin(ctx context.Context, email, password string) bool

	// CreateSession issues a fresh session token and persists it on the user
	// row. Returns domain.ErrUserNotFound for an unknown email.
	CreateSession(ctx context.Context, email string) (string, error)

	// UserFromSession resolves the user carrying the given session token.
	// Empty or unknown tokens return domain.ErrUserNotFound.
	UserFromSession(ctx context.Context, sessionID string) (*domain.User, error)

	// DestroySession clears the session token on the given user. A missing
	// user is a recoverable miss and is treated as a no-op.
	DestroySession(ctx context.Context, userID string) error

	// ResetPasswordToken issues and persists a single-use reset token.
	// Returns domain.ErrUserNotFound for an unknown email.
	ResetPasswordToken(ctx context.Context, email string) (string, error)

	// UpdatePassword consumes a reset token: it replaces the stored hash and
	// clears the token in one update. Returns domain.ErrUserNotFound when no
	// user carries the token.
	UpdatePassword(ctx context.Context, resetToken, newPassword string) error
}
