package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUser indicates a signup against an already registered email.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// A single value keeps the two cases indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification failures. The transport layer collapses all three
	// into one generic unauthorized response; the subtype is for logs only.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenMalformed = errors.New("token malformed")
)

// IsTokenError reports whether err is any of the token verification failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrTokenMalformed)
}
