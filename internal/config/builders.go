package config

import (
	"net/http"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/httputil"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/session"
)

func (o LocationOptions) position() location.Position {
	return location.Position{Latitude: o.Latitude, Longitude: o.Longitude}
}

// NewHTTPClient returns the HTTP client shared by the backend and the
// location service.
func (o *Options) NewHTTPClient() *http.Client {
	return httputil.NewClient(nil, o.Timeout)
}

// NewAPIClient returns a backend client using hc.
func (o *Options) NewAPIClient(hc *http.Client) (*api.Client, error) {
	base, err := o.GetServerURL()
	if err != nil {
		return nil, err
	}
	options := []api.Option{api.WithHTTPClient(hc)}
	reportURL, err := o.GetReportURL()
	if err != nil {
		return nil, err
	} else if reportURL != nil {
		options = append(options, api.WithReportURL(reportURL))
	}
	return api.New(base, options...), nil
}

// NewLocator returns the configured locator, or nil when the device
// cannot be located.
func (o *Options) NewLocator(hc *http.Client) location.Locator {
	switch o.Location.Provider {
	case LocationStatic:
		return location.StaticLocator(o.Location.position())
	case LocationHTTP:
		return &location.HTTPLocator{
			URL:           o.Location.URL,
			LatitudePath:  o.Location.LatitudePath,
			LongitudePath: o.Location.LongitudePath,
			Client:        hc,
		}
	}
	return nil
}

// NewCamera returns the configured camera, or nil when there is none.
func (o *Options) NewCamera() capture.Camera {
	if !HasCamera(o.Camera.Provider) {
		return nil
	}
	switch o.Camera.Provider {
	case CameraFile:
		return capture.FileCamera{Path: o.Camera.Path}
	case CameraCommand:
		return capture.CommandCamera{Command: o.Camera.Command}
	}
	return nil
}

// NewWidget returns a capture widget for the configured camera.
func (o *Options) NewWidget() *capture.Widget {
	return capture.NewWidget(o.NewCamera(),
		capture.WithSize(o.Camera.Width, o.Camera.Height),
		capture.WithQuality(o.Camera.Quality))
}

// NewSession returns the session persisted under SessionDir for the
// configured server.
func (o *Options) NewSession() (*session.Session, error) {
	store, err := session.NewFileStore(o.SessionDir, o.ServerURL)
	if err != nil {
		return nil, err
	}
	return session.New(store), nil
}
