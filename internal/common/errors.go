// Package common defines shared constants and sentinel errors used across
// client and server layers of moneytracker. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorInvalidInput = errors.New("invalid input")
	ErrInvalidAmount  = NewError(ErrorInvalidInput, "Amount must be positive")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Error is a user-facing error message classified by one of the sentinel
// kinds above. errors.Is(err, kind) reports true for its kind.
type Error struct {
	Kind error
	Msg  string
}

// NewError returns an *Error carrying msg and classified as kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }
