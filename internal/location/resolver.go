// Package location resolves the device position and its street address.
package location

import (
	"context"
	"errors"

	"github.com/fingertech/fichaje/internal/log"
)

// ErrNoAddress is returned by a Geocoder when the backend declined to
// resolve an address.
var ErrNoAddress = errors.New("location: address not available")

// Pending is shown while the position is being resolved.
const Pending = "📍 Obteniendo..."

// A Geocoder turns a position into a street address.
type Geocoder interface {
	Geocode(ctx context.Context, p Position) (string, error)
}

// Failure describes why an address is not available.
type Failure int

// address failures
const (
	FailureNone Failure = iota
	FailureUnsupported
	FailurePosition
	FailureUnavailable
	FailureLookup
)

// Message returns the fixed status text for f.
func (f Failure) Message() string {
	switch f {
	case FailureUnsupported:
		return "La geolocalización no está soportada en este dispositivo"
	case FailurePosition:
		return "No se pudo obtener la ubicación"
	case FailureUnavailable:
		return "Dirección no disponible"
	case FailureLookup:
		return "Error al obtener dirección"
	}
	return ""
}

// An Address is a resolved street address or the reason there is none.
type Address struct {
	Text    string
	Failure Failure
}

// OK reports whether the address was resolved.
func (a Address) OK() bool {
	return a.Failure == FailureNone && a.Text != ""
}

// String returns the address, or the failure message prefixed with ❌.
func (a Address) String() string {
	if a.Failure != FailureNone {
		return "❌ " + a.Failure.Message()
	}
	return a.Text
}

// A Result is the outcome of one resolution.
type Result struct {
	Position *Position
	Address  Address
}

// Valid reports whether a fichaje may be submitted with r.
func (r Result) Valid() bool {
	return r.Position != nil && r.Address.OK()
}

// A Resolver reads the position and then looks up its address.
type Resolver struct {
	locator  Locator
	geocoder Geocoder
}

// NewResolver creates a new Resolver. A nil locator means the device
// cannot be located.
func NewResolver(locator Locator, geocoder Geocoder) *Resolver {
	return &Resolver{locator: locator, geocoder: geocoder}
}

// Resolve runs one resolution. Failures are reported in the result and
// never retried.
func (r *Resolver) Resolve(ctx context.Context) Result {
	if r.locator == nil {
		return Result{Address: Address{Failure: FailureUnsupported}}
	}

	p, err := r.locator.Locate(ctx)
	if errors.Is(err, ErrUnsupported) {
		return Result{Address: Address{Failure: FailureUnsupported}}
	} else if err != nil {
		log.Warn(ctx).Err(err).Msg("location: failed to obtain position")
		return Result{Address: Address{Failure: FailurePosition}}
	}

	res := Result{Position: &p}
	log.Debug(ctx).Str("coordenadas", p.String()).Msg("location: resolving address")
	text, err := r.geocoder.Geocode(ctx, p)
	switch {
	case errors.Is(err, ErrNoAddress):
		res.Address = Address{Failure: FailureUnavailable}
	case err != nil:
		log.Warn(ctx).Err(err).Msg("location: address lookup failed")
		res.Address = Address{Failure: FailureLookup}
	case text == "":
		res.Address = Address{Failure: FailureUnavailable}
	default:
		res.Address = Address{Text: text}
	}
	return res
}
