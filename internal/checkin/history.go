package checkin

import (
	"sync"

	"github.com/fingertech/fichaje/internal/api"
)

// DefaultHistorySize is the number of recent fichajes kept.
const DefaultHistorySize = 5

// A History is a capped, newest-first list of fichajes.
type History struct {
	mu     sync.Mutex
	max    int
	events []api.Event
}

// NewHistory creates a new History keeping at most max events.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Max returns the capacity of the history.
func (h *History) Max() int {
	return h.max
}

// Prepend adds evt as the newest entry, dropping the oldest beyond the cap.
func (h *History) Prepend(evt api.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	events := make([]api.Event, 0, min(len(h.events)+1, h.max))
	events = append(events, evt)
	for _, e := range h.events {
		if len(events) == h.max {
			break
		}
		events = append(events, e)
	}
	h.events = events
}

// Replace sets the history to the first events, which must be newest first.
func (h *History) Replace(events []api.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append([]api.Event(nil), events[:min(len(events), h.max)]...)
}

// Events returns a copy of the entries, newest first.
func (h *History) Events() []api.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]api.Event(nil), h.events...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
