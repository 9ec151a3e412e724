// Package auth implements the login flow of the fichaje client.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/request"
	"github.com/fingertech/fichaje/internal/session"
)

// redirect delays used by the front ends
const (
	LoginRedirectDelay  = 1500 * time.Millisecond
	ExpiryRedirectDelay = 2 * time.Second
)

// login messages
const (
	MessageLoginOK        = "✅ Inicio de sesión exitoso"
	MessageBadCredentials = "Credenciales incorrectas"
	MessageConnection     = "❌ Error de conexión con el servidor"
	MessageSessionExpired = "⚠️ Tu sesión ha expirado. Inicia sesión nuevamente."
)

// A Backend authenticates users.
type Backend interface {
	Login(ctx context.Context, dni, password string) (string, error)
}

// A Result is the outcome of a login attempt.
type Result struct {
	// OK is true when the token was stored.
	OK      bool
	Message string
	Err     error
}

// A Gate validates credentials, logs users in and stores their token.
type Gate struct {
	backend Backend
	session *session.Session
	tracker request.Tracker
}

// NewGate creates a new Gate.
func NewGate(backend Backend, sess *session.Session) *Gate {
	return &Gate{backend: backend, session: sess}
}

// State returns the state of the login request.
func (g *Gate) State() request.State {
	return g.tracker.State()
}

// Login validates the credentials locally and, when they are well formed,
// asks the backend for a token.
func (g *Gate) Login(ctx context.Context, dni, password string) Result {
	if err := ValidateCredentials(dni, password); err != nil {
		return Result{Message: err.Error(), Err: err}
	}
	if err := g.tracker.Begin(); err != nil {
		return Result{Err: err}
	}

	ctx = log.WithContext(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("dni", dni)
	})
	res := g.login(ctx, dni, password)
	g.tracker.Finish(res.Err)
	return res
}

func (g *Gate) login(ctx context.Context, dni, password string) Result {
	token, err := g.backend.Login(ctx, dni, password)
	switch {
	case api.IsRejected(err):
		log.Info(ctx).Err(err).Msg("auth: login rejected")
		return Result{Message: "⚠️ " + api.MessageOr(err, MessageBadCredentials), Err: err}
	case err != nil:
		log.Warn(ctx).Err(err).Msg("auth: login failed")
		return Result{Message: MessageConnection, Err: err}
	}

	if err := g.session.Set(token); err != nil {
		log.Error().Err(err).Msg("auth: failed to store session")
		return Result{Message: "❌ No se pudo guardar la sesión", Err: err}
	}
	log.Info(ctx).Msg("auth: logged in")
	return Result{OK: true, Message: MessageLoginOK}
}

// Logout clears the stored token.
func (g *Gate) Logout() error {
	return g.session.Clear()
}

// IsValidation reports whether err was raised by local validation.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
