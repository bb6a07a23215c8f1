package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means no session is held; protected calls fail
	// fast without touching the network.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the server rejected the stored token. The
	// session has already been purged when this is returned; the caller
	// must re-login and refetch, never retry the original request.
	ErrSessionExpired = errors.New("session expired")
)

// APIError carries a fail/error envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}
