package auth

import (
	"context"
	"net/http"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// SessionAuth authenticates requests from a session cookie backed by a
// SessionStore registry. The cookie name comes from configuration
// (SESSION_NAME) so deployments can pick their own.
type SessionAuth struct {
	NullAuth
	users      ports.UserRepository
	sessions   SessionStore
	cookieName string
}

func NewSessionAuth(users ports.UserRepository, sessions SessionStore, cookieName string) *SessionAuth {
	return &SessionAuth{users: users, sessions: sessions, cookieName: cookieName}
}

// SessionCookie returns the value of the configured session cookie, or ""
// when the request carries none.
func (s *SessionAuth) SessionCookie(r *http.Request) string {
	if r == nil || s.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ResolvePrincipal maps cookie → session registry → user repository. Any
// miss along the way degrades to nil.
func (s *SessionAuth) ResolvePrincipal(ctx context.Context, r *http.Request) *domain.User {
	token := s.SessionCookie(r)
	if token == "" {
		return nil
	}
	userID, ok := s.sessions.Lookup(ctx, token)
	if !ok {
		return nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}
