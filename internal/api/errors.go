// Package api holds the error kinds shared by the REST clients.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthRequired is returned when an operation needs a bearer token and
// none is available. It is always detected locally, before any network
// call is made.
var ErrAuthRequired = errors.New("authentication required")

// RequestError is a non-success HTTP outcome. Message carries the
// server-supplied human message when one was present, otherwise a
// message synthesized from the status code.
type RequestError struct {
	Resource string
	Status   int
	Message  string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed (status %d): %s", e.Resource, e.Status, e.Message)
}

// NewRequestError builds a RequestError, synthesizing a message from the
// status code when the server supplied none.
func NewRequestError(resource string, status int, message string) *RequestError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &RequestError{Resource: resource, Status: status, Message: message}
}

// MalformedResponseError is a success status whose body could not be
// parsed as expected.
type MalformedResponseError struct {
	Resource string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Resource, e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IsAuthFailure reports whether err is a request failure that should
// invalidate the session. This is a structured status check: 401 or 403
// on the transport, never a match on message text.
func IsAuthFailure(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.Status == http.StatusUnauthorized || reqErr.Status == http.StatusForbidden
}
