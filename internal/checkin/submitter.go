// Package checkin submits fichajes and keeps the recent history.
package checkin

import (
	"context"
	"errors"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/auth"
	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/request"
	"github.com/fingertech/fichaje/internal/session"
)

// ErrInvalidLocation is returned when submitting without a resolved address.
var ErrInvalidLocation = errors.New("checkin: invalid location")

// submission messages
const (
	MessageInvalidLocation = "⚠️ Ubicación no válida, intenta nuevamente."
	MessageFailed          = "Error al registrar fichaje"
	MessageConnection      = "❌ No se pudo conectar con el servidor."
)

// A Backend stores and lists fichajes.
type Backend interface {
	CreateEvent(ctx context.Context, token string, req api.CreateEventRequest) (api.Event, error)
	Events(ctx context.Context, token string) ([]api.Event, error)
}

// A Result is the outcome of a submission.
type Result struct {
	Event   *api.Event
	Message string
	Err     error
	// Expired is set when the session was cleared and the user must log in again.
	Expired bool
}

// A Submitter registers fichajes for the logged in user.
type Submitter struct {
	backend Backend
	session *session.Session
	history *History
	tracker request.Tracker
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(backend Backend, sess *session.Session, history *History) *Submitter {
	return &Submitter{backend: backend, session: sess, history: history}
}

// History returns the recent fichajes.
func (s *Submitter) History() *History {
	return s.history
}

// State returns the state of the submission request.
func (s *Submitter) State() request.State {
	return s.tracker.State()
}

// Submit registers a fichaje at loc. When widget holds a captured image it
// is attached and discarded after a successful submission.
func (s *Submitter) Submit(ctx context.Context, loc location.Result, widget *capture.Widget) Result {
	if !loc.Valid() {
		return Result{Message: MessageInvalidLocation, Err: ErrInvalidLocation}
	}
	if err := s.session.Check(); err != nil {
		return s.expire(ctx, err)
	}
	if err := s.tracker.Begin(); err != nil {
		return Result{Err: err}
	}

	res := s.submit(ctx, loc, widget)
	s.tracker.Finish(res.Err)
	return res
}

func (s *Submitter) submit(ctx context.Context, loc location.Result, widget *capture.Widget) Result {
	req := api.CreateEventRequest{Coordinates: loc.Position.String()}
	if widget != nil {
		if img := widget.Image(); img != nil {
			req.Image = img.Encoded
		}
	}

	evt, err := s.backend.CreateEvent(ctx, s.session.Token(), req)
	switch {
	case api.IsUnauthorized(err):
		res := s.expire(ctx, err)
		res.Err = err
		return res
	case api.IsRejected(err):
		log.Info(ctx).Err(err).Msg("checkin: fichaje rejected")
		return Result{Message: "⚠️ " + api.MessageOr(err, MessageFailed), Err: err}
	case err != nil:
		log.Warn(ctx).Err(err).Msg("checkin: fichaje failed")
		return Result{Message: MessageConnection, Err: err}
	}

	s.history.Prepend(evt)
	if widget != nil {
		widget.Discard()
	}
	log.Info(ctx).
		Str("tipo", string(evt.Kind)).
		Str("fechaHora", evt.Timestamp).
		Bool("imagen", req.Image != "").
		Msg("checkin: fichaje registrado")
	return Result{Event: &evt, Message: "✅ Fichaje registrado: " + evt.Kind.Label()}
}

func (s *Submitter) expire(ctx context.Context, cause error) Result {
	log.Info(ctx).Err(cause).Msg("checkin: session expired")
	if err := s.session.Clear(); err != nil {
		log.Error().Err(err).Msg("checkin: failed to clear session")
	}
	return Result{Message: auth.MessageSessionExpired, Err: session.ErrExpired, Expired: true}
}

// Refresh replaces the history with the latest fichajes from the backend.
// Failures leave the history untouched.
func (s *Submitter) Refresh(ctx context.Context) error {
	token := s.session.Token()
	if token == "" {
		return session.ErrNotFound
	}
	events, err := s.backend.Events(ctx, token)
	if err != nil {
		log.Warn(ctx).Err(err).Msg("checkin: failed to refresh history")
		return err
	}
	s.history.Replace(events)
	return nil
}
