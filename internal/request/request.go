// Package request tracks the lifecycle of a single user action that talks
// to the backend, and guards against running it twice at once.
package request

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when an action is started while already running.
var ErrInFlight = errors.New("request: already in flight")

// State is the state of a tracked action.
type State int

// action states
const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// A Tracker holds the state of one action. The zero value is idle.
type Tracker struct {
	mu    sync.Mutex
	state State
	err   error
}

// Begin moves the tracker to InFlight. It returns ErrInFlight if the
// action is already running.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == InFlight {
		return ErrInFlight
	}
	t.state = InFlight
	t.err = nil
	return nil
}

// Finish ends the running action, as Succeeded when err is nil and as
// Failed otherwise.
func (t *Tracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.state = Failed
	} else {
		t.state = Succeeded
	}
	t.err = err
}

// Reset returns the tracker to Idle.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.state = Idle
	t.err = nil
	t.mu.Unlock()
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the error of the last failed action.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// InFlight reports whether the action is running.
func (t *Tracker) InFlight() bool {
	return t.State() == InFlight
}
