package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

const basicPrefix = "Basic "

// BasicAuth authenticates requests from an RFC 7617 Authorization header,
// checking the decoded email/password pair against the user repository.
type BasicAuth struct {
	NullAuth
	users ports.UserRepository
}

func NewBasicAuth(users ports.UserRepository) *BasicAuth {
	return &BasicAuth{users: users}
}

// ResolvePrincipal runs the full pipeline: header → base64 token → decoded
// credentials → repository lookup → password check. Every stage collapses a
// miss into nil; nothing on this path returns an error to the caller.
func (b *BasicAuth) ResolvePrincipal(ctx context.Context, r *http.Request) *domain.User {
	token, ok := extractBasicToken(b.ExtractCredential(r))
	if !ok {
		return nil
	}
	decoded, ok := decodeBasicToken(token)
	if !ok {
		return nil
	}
	email, password, ok := splitCredentials(decoded)
	if !ok {
		return nil
	}

	user, err := b.users.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}
	if !CheckPassword(user.HashedPassword, password) {
		return nil
	}
	return user
}

// extractBasicToken returns the credential part of a "Basic <token>" header.
func extractBasicToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	token := header[len(basicPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// decodeBasicToken base64-decodes the token. Invalid encoding or a result
// that is not valid UTF-8 both report false.
func decodeBasicToken(token string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// splitCredentials splits a decoded "email:password" pair on the first colon,
// so the password itself may contain colons.
func splitCredentials(decoded string) (email, password string, ok bool) {
	email, password, ok = strings.Cut(decoded, ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}
