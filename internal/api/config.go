package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/fingertech/fichaje/internal/httputil"
)

type config struct {
	httpClient *http.Client
	report     *url.URL
}

// An Option modifies the config.
type Option func(*config)

// WithHTTPClient sets the http client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = hc
	}
}

// WithTimeout makes the default http client give up after timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.httpClient = httputil.NewClient(nil, timeout)
	}
}

// WithReportURL sets a separate base URL for report downloads.
func WithReportURL(u *url.URL) Option {
	return func(cfg *config) {
		cfg.report = u
	}
}

func getConfig(options ...Option) *config {
	cfg := new(config)
	WithHTTPClient(httputil.NewClient(nil, 0))(cfg)
	for _, o := range options {
		o(cfg)
	}
	return cfg
}

func (cfg *config) reportURL(base *url.URL) *url.URL {
	if cfg.report != nil {
		return cfg.report
	}
	return base
}
