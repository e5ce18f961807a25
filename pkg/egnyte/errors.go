package egnyte

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAccessToken is returned by NewClient when no token is given.
	ErrEmptyAccessToken = errors.New("egnyte: access token is required")

	// ErrEmptyDomain is returned by NewClient when no domain is given.
	ErrEmptyDomain = errors.New("egnyte: domain is required")
)

// APIError reports a response the client could not turn into a result.
//
// Err is nil when the server rejected the call with a non-2xx status. When
// the server answered 2xx but the body could not be decoded, Err holds the
// decoding error and StatusCode is the successful status.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("egnyte: decode response (status %d): %v", e.StatusCode, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("egnyte: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("egnyte: server returned %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ArgumentError reports a missing or invalid argument to a resource call.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("egnyte: argument %q is required", e.Name)
}

func requireArg(name, value string) error {
	if value == "" {
		return &ArgumentError{Name: name}
	}
	return nil
}
