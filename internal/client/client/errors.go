package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTokenNotIssued  = errors.New("no token in verification response")
	ErrInvalidResponse = errors.New("invalid response body")
)

// APIError is a request the server rejected with a reason, either through a
// non-2xx status or an envelope with "success": false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
