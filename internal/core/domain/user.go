package domain

import (
	"errors"
	"time"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// ErrInvalidCriteria marks a repository update naming a field outside the
// allowed set. It signals a programming error, not bad user input, so it is
// never collapsed into a not-found response.
var ErrInvalidCriteria = errors.New("invalid update criteria")

// User models an authenticated account.
//
// SessionID holds the active session token when the deployment binds sessions
// to the user row (at most one live session per user); ResetToken holds a
// single-use password-reset token. Both are empty when unset.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	SessionID      string    `json:"-"`
	ResetToken     string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
