package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is for any NotFoundError.
var ErrNotFound = errors.New("appointment not found")

// NetworkError reports a transport failure or a server-side (5xx) failure.
type NetworkError struct {
	Op         string
	StatusCode int // zero when no response was received
	Msg        string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a request the store rejected (4xx other than 404)
// or a response body that could not be decoded.
type ValidationError struct {
	Op         string
	StatusCode int
	Msg        string
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports that the addressed appointment does not exist.
type NotFoundError struct {
	Op string
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: appointment %q not found", e.Op, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
