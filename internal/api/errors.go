package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrUnreachable indicates the backend could not be reached or its
// response could not be read.
var ErrUnreachable = errors.New("api: backend unreachable")

// An Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	// Message is the server supplied "mensaje", possibly empty.
	Message  string
	Endpoint string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %s: %d %s", e.Endpoint, e.StatusCode, e.Message)
}

// Unauthorized reports whether the backend rejected the token.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newError(statusCode int, endpoint string, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Endpoint: endpoint}
	if gjson.ValidBytes(body) {
		e.Message = gjson.GetBytes(body, "mensaje").String()
	}
	return e
}

// IsRejected reports whether err is a backend rejection.
func IsRejected(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

// IsUnauthorized reports whether err is a backend rejection of the token.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// MessageOr returns the server message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
