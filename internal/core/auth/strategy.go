package auth

import (
	"context"
	"net/http"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// Strategy kinds selected by the AUTH_TYPE environment variable.
const (
	KindNone    = ""
	KindBasic   = "basic"
	KindSession = "session"
)

// Strategy decides whether a request must authenticate and resolves the
// principal behind it. Resolution never errors: absent or malformed
// credentials degrade to a nil principal and the router turns that into a
// 403.
type Strategy interface {
	// RequiresAuth reports whether the path falls outside the exclusion
	// list. See RequiresAuth (package function) for the matching rules.
	RequiresAuth(path string, excluded []string) bool

	// ExtractCredential returns the raw Authorization header, or "" when the
	// request carries none.
	ExtractCredential(r *http.Request) string

	// ResolvePrincipal returns the user the request authenticates as, or nil.
	ResolvePrincipal(ctx context.Context, r *http.Request) *domain.User
}

// NullAuth is the no-op strategy: it applies path exclusions and exposes the
// Authorization header but never resolves a principal. It is also the base
// the other strategies embed.
type NullAuth struct{}

func (NullAuth) RequiresAuth(path string, excluded []string) bool {
	return RequiresAuth(path, excluded)
}

func (NullAuth) ExtractCredential(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

func (NullAuth) ResolvePrincipal(context.Context, *http.Request) *domain.User {
	return nil
}

// New selects a Strategy by kind. Unknown kinds fall back to NullAuth so a
// misconfigured deployment fails closed (auth required, nobody resolves).
func New(kind string, users ports.UserRepository, sessions SessionStore, cookieName string) Strategy {
	switch kind {
	case KindBasic:
		return NewBasicAuth(users)
	case KindSession:
		return NewSessionAuth(users, sessions, cookieName)
	default:
		return NullAuth{}
	}
}
