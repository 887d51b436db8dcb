package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/auth"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// AuthService implements registration, login validation, and the session and
// password-reset token lifecycle. Session tokens issued here are persisted on
// the user row (one live session per user); the separate SessionStore
// registry used by the session strategy is an alternate binding kept behind
// its own interface.
type AuthService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Msg("user registered")
	return created, nil
}

// ValidLogin reports whether the pair matches a stored user. Lookup misses
// and wrong passwords both report plain false.
func (s *AuthService) ValidLogin(ctx context.Context, email, password string) bool {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false
	}
	return auth.CheckPassword(user.HashedPassword, password)
}

func (s *AuthService) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	sessionID := uuid.NewString()
	if err := s.repo.Update(ctx, user.ID, map[string]any{
		ports.FieldSessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

func (s *AuthService) UserFromSession(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindBySessionID(ctx, sessionID)
}

// DestroySession clears the session token on the user. A missing user is a
// recoverable miss, not an error: logging out twice must not fail.
func (s *AuthService) DestroySession(ctx context.Context, userID string) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("destroy session: %w", err)
	}

	if err := s.repo.Update(ctx, userID, map[string]any{
		ports.FieldSessionID: "",
	}); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	resetToken := uuid.NewString()
	if err := s.repo.Update(ctx, user.ID, map[string]any{
		ports.FieldResetToken: resetToken,
	}); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}

	s.log.Info().Str("email", email).Msg("password reset token issued")
	return resetToken, nil
}

// UpdatePassword consumes a reset token: the new hash is stored and the token
// cleared in a single repository update so the token can never authorize a
// second change.
func (s *AuthService) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return domain.ErrUserNotFound
	}

	user, err := s.repo.FindByResetToken(ctx, resetToken)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.Update(ctx, user.ID, map[string]any{
		ports.FieldHashedPassword: hash,
		ports.FieldResetToken:     "",
	}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("email", user.Email).Msg("password updated via reset token")
	return nil
}
