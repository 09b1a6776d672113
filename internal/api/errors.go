package api

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is returned when a request fails authorization and a
// refresh-and-retry did not resolve it (or no refresh was possible).
// Callers should direct the user to run setup again.
var ErrInvalidToken = errors.New("access token is invalid or expired and could not be refreshed")

// authFailedMessage is the exact error string the service places in a JSON
// body when the access token is rejected. It is the trigger for the
// refresh-and-retry policy.
const authFailedMessage = "OAuth2 authorization failed"

// TransportError wraps a failure below the HTTP layer: connection refused,
// DNS resolution, TLS handshake, interrupted body read. No status code or
// response body is available when this is returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response that violated the API contract: a body
// that is not valid JSON where JSON is guaranteed, or a guaranteed field
// that is missing from an otherwise well-formed document.
type ProtocolError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed response from %s: missing field %q", e.Endpoint, e.Field)
	}
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// APIError is a well-formed business error from the service: the response
// parsed cleanly and carried an "error" message that is not the
// authorization sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// IsInvalidToken reports whether err indicates unusable credentials.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
