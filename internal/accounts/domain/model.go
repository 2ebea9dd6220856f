package domain

import "errors"

// Account is an email/password login. Accounts are created once and never
// mutated; there is no delete path.
type Account struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	// Unix milliseconds, set at creation.
	CreatedAt int64 `json:"created_at"`
}

var (
	// ErrInvalidCredentials is the single uniform login failure: callers can
	// not tell a missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken marks a registration against an already-registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTooManyAttempts marks a login rejected by rate limiting before any
	// store access.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrNotFound marks a lookup for an absent account.
	ErrNotFound = errors.New("account not found")
)
