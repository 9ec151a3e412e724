// Package tripper provides utility functions for working with the
// http.RoundTripper interface.
package tripper

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying a per-request id.
const RequestIDHeader = "X-Request-Id"

// RoundTripperFunc wraps a function in a RoundTripper interface similar to HandlerFunc
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying tripper function in the RoundTripperFunc
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// SetHeader returns a Constructor that sets key on every outgoing request
// that does not already carry it. The request is cloned before mutation.
func SetHeader(key, value string) Constructor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(key) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(key, value)
			return next.RoundTrip(req)
		})
	}
}

// RequestID returns a Constructor that stamps each request with a fresh
// uuid in the X-Request-Id header.
func RequestID() Constructor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(req)
		})
	}
}
