// Package session holds the backend token of the logged in user.
//
// A Session is the only accessor for the token: the login flow writes it,
// authenticated requests read it and expiry clears it.
package session

import (
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
)

// A Session wraps a Store with an in-memory copy of the token.
type Session struct {
	store Store
	now   func() time.Time

	mu     sync.Mutex
	token  string
	loaded bool
}

// An Option customizes a Session.
type Option func(*Session)

// WithNow sets the clock used for expiry checks.
func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a new Session backed by store.
func New(store Store, options ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, o := range options {
		o(s)
	}
	return s
}

// Token returns the current token, or the empty string when not logged in.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	return s.token
}

// Set stores a new token.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the token.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	return s.store.Clear()
}

// Check reports whether the session looks usable. It returns ErrNotFound
// when there is no token and ErrExpired when the token claims an expiry
// in the past. Tokens that are not JWTs, or carry no expiry, pass: the
// backend decides whether they are still valid.
func (s *Session) Check() error {
	token := s.Token()
	if token == "" {
		return ErrNotFound
	}
	expiresAt, err := Expiry(token)
	if err != nil || expiresAt.IsZero() {
		return nil
	}
	if !expiresAt.After(s.now()) {
		return ErrExpired
	}
	return nil
}

func (s *Session) loadLocked() {
	if s.loaded {
		return
	}
	token, err := s.store.Load()
	if err != nil {
		token = ""
	}
	s.token = token
	s.loaded = true
}

// Expiry decodes the exp claim of a JWT without verifying its signature.
// A token without exp returns the zero time.
func Expiry(rawJWT string) (time.Time, error) {
	tok, err := jwt.ParseSigned(rawJWT)
	if err != nil {
		return time.Time{}, ErrInvalid
	}

	var claims jwt.Claims
	if err := tok.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return time.Time{}, ErrInvalid
	}
	if claims.Expiry == nil {
		return time.Time{}, nil
	}
	return claims.Expiry.Time(), nil
}
