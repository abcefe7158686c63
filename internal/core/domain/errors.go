package domain

import "errors"

// Sentinel errors shared across the service and transport layers. The HTTP
// error handler maps each one to a deterministic status code.
var (
	// ErrInvalidInput rejects requests that fail format constraints.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken signals a registration conflict. The store's unique
	// index is the source of truth; a pre-check passing does not prevent it.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases are intentionally indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts rejects logins once the per-account attempt
	// window is exhausted.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrUserNotFound is returned by repositories when a lookup misses.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnavailable signals a dependency timeout or outage. Retriable.
	ErrUnavailable = errors.New("service unavailable")

	// ErrTokenInvalid covers every token verification failure: bad
	// signature, expired, malformed. Callers cannot tell which.
	ErrTokenInvalid = errors.New("invalid token")
)
