package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoSession is returned when an authenticated call is attempted
	// without a stored session; no network call is made.
	ErrNoSession = errors.New("not logged in")
	// ErrUnauthorized is matched by APIError on a 401 response, after
	// the stored session has been cleared.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is the uniform failure shape of every backend call. Message
// carries the backend-supplied error text when present, else a generic
// fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
