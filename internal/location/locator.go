package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrUnsupported is returned by a Locator when the device has no way to
// obtain its position.
var ErrUnsupported = errors.New("location: geolocation unsupported")

// A Locator reads the device position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// A StaticLocator always reports the same position.
type StaticLocator Position

// Locate returns the configured position.
func (l StaticLocator) Locate(_ context.Context) (Position, error) {
	p := Position(l)
	return p, p.Validate()
}

// An HTTPLocator reads the position from a JSON document served at URL,
// such as an IP geolocation service.
type HTTPLocator struct {
	URL           string
	LatitudePath  string
	LongitudePath string
	Client        *http.Client
}

const maxLocatorBody = 1 << 20

// Locate fetches the document and extracts the coordinates.
func (l *HTTPLocator) Locate(ctx context.Context) (Position, error) {
	if l.URL == "" {
		return Position{}, ErrUnsupported
	}
	hc := l.Client
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Position{}, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := hc.Do(req)
	if err != nil {
		return Position{}, fmt.Errorf("location: request position: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return Position{}, fmt.Errorf("location: position service returned %s", res.Status)
	}
	bs, err := io.ReadAll(io.LimitReader(res.Body, maxLocatorBody))
	if err != nil {
		return Position{}, fmt.Errorf("location: read position: %w", err)
	}

	lat := gjson.GetBytes(bs, orDefault(l.LatitudePath, "latitude"))
	lon := gjson.GetBytes(bs, orDefault(l.LongitudePath, "longitude"))
	if lat.Type != gjson.Number || lon.Type != gjson.Number {
		return Position{}, errors.New("location: position service response has no coordinates")
	}
	p := Position{Latitude: lat.Float(), Longitude: lon.Float()}
	return p, p.Validate()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
