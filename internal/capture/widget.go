// Package capture takes a still photo from a camera for a fichaje.
//
// The Widget is a small state machine:
//
//	idle --Open--> camera-active --Snap--> image-captured
//	                    ^                        |
//	                    +--------Retake----------+
//
// The camera stream is held only while camera-active. Snap, Close and a
// failed frame all release it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// capture errors
var (
	ErrNoCamera     = errors.New("capture: no camera available")
	ErrInvalidState = errors.New("capture: invalid state")
)

// State is the state of a Widget.
type State int

// widget states
const (
	Idle State = iota
	CameraActive
	ImageCaptured
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CameraActive:
		return "camera-active"
	case ImageCaptured:
		return "image-captured"
	}
	return "unknown"
}

// A Camera opens a stream of frames.
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// A Stream yields frames until closed.
type Stream interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// An Image is a captured still ready to be attached to a fichaje.
type Image struct {
	// Encoded is a data:image/jpeg;base64 URL.
	Encoded string
	Width   int
	Height  int
}

// A Widget drives a Camera through the capture states.
type Widget struct {
	camera Camera
	cfg    *config

	mu     sync.Mutex
	state  State
	stream Stream
	image  *Image
}

// NewWidget creates a new Widget for camera. A nil camera makes every
// Open fail with ErrNoCamera.
func NewWidget(camera Camera, options ...Option) *Widget {
	return &Widget{
		camera: camera,
		cfg:    getConfig(options...),
	}
}

// Available reports whether the widget has a camera.
func (w *Widget) Available() bool {
	return w != nil && w.camera != nil
}

// State returns the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Image returns the captured image, or nil.
func (w *Widget) Image() *Image {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.image == nil {
		return nil
	}
	img := *w.image
	return &img
}

// Open acquires the camera stream. Opening an active camera is a no-op.
func (w *Widget) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case CameraActive:
		return nil
	case ImageCaptured:
		return fmt.Errorf("%w: image already captured, retake instead", ErrInvalidState)
	}
	return w.openLocked(ctx)
}

// Snap samples one frame, scales and encodes it, and releases the stream.
func (w *Widget) Snap(ctx context.Context) (*Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != CameraActive {
		return nil, fmt.Errorf("%w: camera is %s", ErrInvalidState, w.state)
	}

	frame, err := w.stream.Frame(ctx)
	w.releaseLocked()
	if err != nil {
		w.state = Idle
		return nil, fmt.Errorf("capture: read frame: %w", err)
	}

	img, err := Encode(frame, w.cfg.width, w.cfg.height, w.cfg.quality)
	if err != nil {
		w.state = Idle
		return nil, err
	}
	w.image = img
	w.state = ImageCaptured

	out := *img
	return &out, nil
}

// Retake discards the captured image and reopens the camera.
func (w *Widget) Retake(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != ImageCaptured {
		return fmt.Errorf("%w: nothing to retake", ErrInvalidState)
	}
	w.image = nil
	w.state = Idle
	return w.openLocked(ctx)
}

// Discard drops the captured image, typically after it was submitted.
func (w *Widget) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.image = nil
	if w.state == ImageCaptured {
		w.state = Idle
	}
}

// Close releases the camera and drops any image.
func (w *Widget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.releaseLocked()
	w.image = nil
	w.state = Idle
	return err
}

func (w *Widget) openLocked(ctx context.Context) error {
	if w.camera == nil {
		return ErrNoCamera
	}
	stream, err := w.camera.Open(ctx)
	if err != nil {
		return fmt.Errorf("capture: open camera: %w", err)
	}
	w.stream = stream
	w.state = CameraActive
	return nil
}

func (w *Widget) releaseLocked() error {
	if w.stream == nil {
		return nil
	}
	err := w.stream.Close()
	w.stream = nil
	return err
}
