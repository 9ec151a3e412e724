package log

import (
	"io"
	"sync"
)

// A SwapWriter forwards writes to a destination that can be replaced
// while the logger is in use.
type SwapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSwapWriter creates a new SwapWriter writing to w.
func NewSwapWriter(w io.Writer) *SwapWriter {
	return &SwapWriter{w: w}
}

// Set replaces the destination with w.
func (s *SwapWriter) Set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// Write writes data to the current destination.
func (s *SwapWriter) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return len(data), nil
	}
	return s.w.Write(data)
}
