package checkin

import (
	"context"
	"fmt"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/session"
)

// An AddressBackend resolves coordinates into an address.
type AddressBackend interface {
	Address(ctx context.Context, token, coordinates string) (string, error)
}

// A Geocoder resolves addresses through the backend using the session token.
type Geocoder struct {
	backend AddressBackend
	session *session.Session
}

// NewGeocoder creates a new Geocoder.
func NewGeocoder(backend AddressBackend, sess *session.Session) *Geocoder {
	return &Geocoder{backend: backend, session: sess}
}

// Geocode implements location.Geocoder.
func (g *Geocoder) Geocode(ctx context.Context, p location.Position) (string, error) {
	addr, err := g.backend.Address(ctx, g.session.Token(), p.String())
	if api.IsRejected(err) {
		return "", fmt.Errorf("%w: %w", location.ErrNoAddress, err)
	}
	return addr, err
}
