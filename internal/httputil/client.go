// Package httputil builds the HTTP clients used to talk to the fichajes backend.
package httputil

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/tripper"
	"github.com/fingertech/fichaje/internal/version"
)

type loggingRoundTripper struct {
	base      http.RoundTripper
	customize []func(event *zerolog.Event) *zerolog.Event
}

func (l loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := l.base.RoundTrip(req)
	statusCode := 0
	if res != nil {
		statusCode = res.StatusCode
	}
	evt := log.Debug(req.Context()).
		Str("method", req.Method).
		Str("authority", req.URL.Host).
		Str("path", req.URL.Path).
		Str("request-id", req.Header.Get(tripper.RequestIDHeader)).
		Dur("duration", time.Since(start)).
		Int("response-code", statusCode)
	if err != nil {
		evt = evt.Err(err)
	}
	for _, f := range l.customize {
		f(evt)
	}
	evt.Msg("outbound http-request")
	return res, err
}

// NewLoggingRoundTripper creates a http.RoundTripper that will log requests.
func NewLoggingRoundTripper(base http.RoundTripper, customize ...func(event *zerolog.Event) *zerolog.Event) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return loggingRoundTripper{base: base, customize: customize}
}

// NewClient creates the backend http.Client: every request gets the
// fichaje user agent and a request id, and is logged at debug level.
// A zero timeout means no timeout.
func NewClient(base http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: tripper.Wrap(NewLoggingRoundTripper(base),
			tripper.SetHeader("User-Agent", version.UserAgent()),
			tripper.RequestID(),
		),
	}
}
