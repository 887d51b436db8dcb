package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// Update field names accepted by UserRepository.Update. Any other key is a
// contract violation and yields domain.ErrInvalidCriteria.
const (
	FieldHashedPassword = "hashed_password"
	FieldSessionID      = "session_id"
	FieldResetToken     = "reset_token"
)

// UserRepository defines the interface for user persistence.
//
// Find methods return domain.ErrUserNotFound on a miss. Create returns
// domain.ErrUserExists when the email is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.User, error)
	FindByResetToken(ctx context.Context, resetToken string) (*domain.User, error)

	// Update applies the given fields to the user with the given id in a
	// single write. Keys must come from the Field* constants; an unknown key
	// returns domain.ErrInvalidCriteria. An empty string value clears the
	// column.
	Update(ctx context.Context, id string, fields map[string]any) error
}
