package tripper

import "net/http"

// Constructor wraps a RoundTripper with another one.
type Constructor func(http.RoundTripper) http.RoundTripper

// Wrap applies constructors to base so that a request passes through them
// in the order given and reaches base last:
//
//	Wrap(h, m1, m2) == m1(m2(h))
//
// A nil base is treated as http.DefaultTransport.
func Wrap(base http.RoundTripper, constructors ...Constructor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(constructors) - 1; i >= 0; i-- {
		base = constructors[i](base)
	}
	return base
}
