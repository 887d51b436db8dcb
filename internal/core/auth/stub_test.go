package auth

import (
	"context"
	"fmt"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// stubUserRepo is a map-backed ports.UserRepository shared by the strategy
// tests in this package.
type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(user *domain.User) *domain.User {
	r.nextID++
	clone := *user
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[clone.ID] = &clone
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := r.add(user)
	clone := *created
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindBySessionID(_ context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findBy(func(u *domain.User) bool { return u.SessionID == sessionID })
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, resetToken string) (*domain.User, error) {
	if resetToken == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findBy(func(u *domain.User) bool { return u.ResetToken == resetToken })
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	for key, value := range fields {
		str, _ := value.(string)
		switch key {
		case ports.FieldHashedPassword:
			user.HashedPassword = str
		case ports.FieldSessionID:
			user.SessionID = str
		case ports.FieldResetToken:
			user.ResetToken = str
		default:
			return fmt.Errorf("%w: %s", domain.ErrInvalidCriteria, key)
		}
	}
	return nil
}

func (r *stubUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
