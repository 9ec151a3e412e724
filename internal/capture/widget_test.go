package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCamera struct {
	opens   int
	closes  int
	openErr error
	frame   image.Image
	err     error
}

func (c *fakeCamera) Open(_ context.Context) (Stream, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opens++
	return &fakeStream{cam: c}, nil
}

type fakeStream struct {
	cam *fakeCamera
}

func (s *fakeStream) Frame(_ context.Context) (image.Image, error) {
	return s.cam.frame, s.cam.err
}

func (s *fakeStream) Close() error {
	s.cam.closes++
	return nil
}

func (c *fakeCamera) live() int { return c.opens - c.closes }

func testFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestWidgetLifecycle(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cam := &fakeCamera{frame: testFrame(640, 480)}
	w := NewWidget(cam)
	assert.True(t, w.Available())
	assert.Equal(t, Idle, w.State())

	_, err := w.Snap(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, w.Open(ctx))
	assert.Equal(t, CameraActive, w.State())
	require.NoError(t, w.Open(ctx), "opening twice is a no-op")
	assert.Equal(t, 1, cam.opens)

	img, err := w.Snap(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImageCaptured, w.State())
	assert.Equal(t, 0, cam.live(), "snap must release the stream")
	assert.Equal(t, DefaultWidth, img.Width)
	assert.Equal(t, DefaultHeight, img.Height)
	assert.True(t, strings.HasPrefix(img.Encoded, "data:image/jpeg;base64,"))
	assert.Equal(t, img, w.Image())

	assert.ErrorIs(t, w.Open(ctx), ErrInvalidState)

	require.NoError(t, w.Retake(ctx))
	assert.Equal(t, CameraActive, w.State())
	assert.Nil(t, w.Image(), "retake discards the prior image")
	assert.Equal(t, 1, cam.live())

	_, err = w.Snap(ctx)
	require.NoError(t, err)
	w.Discard()
	assert.Equal(t, Idle, w.State())
	assert.Nil(t, w.Image())
	assert.Equal(t, 0, cam.live())
}

func TestWidgetSnapFailureReleases(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{err: errors.New("sensor unplugged")}
	w := NewWidget(cam)
	require.NoError(t, w.Open(t.Context()))

	_, err := w.Snap(t.Context())
	assert.Error(t, err)
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, 0, cam.live())

	cam.err = nil
	cam.frame = image.NewRGBA(image.Rect(0, 0, 0, 0))
	require.NoError(t, w.Open(t.Context()))
	_, err = w.Snap(t.Context())
	assert.Error(t, err, "empty frames cannot be encoded")
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, 0, cam.live())
}

func TestWidgetClose(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{frame: testFrame(8, 8)}
	w := NewWidget(cam)
	require.NoError(t, w.Open(t.Context()))
	require.NoError(t, w.Close())
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, 0, cam.live())

	require.NoError(t, w.Open(t.Context()))
	_, err := w.Snap(t.Context())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Nil(t, w.Image())
	assert.Equal(t, Idle, w.State())
}

func TestWidgetOpenErrors(t *testing.T) {
	t.Parallel()

	w := NewWidget(nil)
	assert.False(t, w.Available())
	assert.ErrorIs(t, w.Open(t.Context()), ErrNoCamera)

	denied := errors.New("permission denied")
	w = NewWidget(&fakeCamera{openErr: denied})
	assert.ErrorIs(t, w.Open(t.Context()), denied)
	assert.Equal(t, Idle, w.State())
}

func TestWidgetOptions(t *testing.T) {
	t.Parallel()

	w := NewWidget(&fakeCamera{frame: testFrame(100, 100)}, WithSize(64, 48), WithQuality(90), WithSize(0, 10), WithQuality(0))
	require.NoError(t, w.Open(t.Context()))
	img, err := w.Snap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, 48, img.Height)

	decoded, err := Decode(img.Encoded)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), decoded.Bounds())
}

func TestDecodeRejectsOtherURLs(t *testing.T) {
	t.Parallel()

	_, err := Decode("data:image/png;base64,AAAA")
	assert.Error(t, err)
	_, err = Decode(dataURLPrefix + "%%%")
	assert.Error(t, err)
}

func TestFileCamera(t *testing.T) {
	t.Parallel()

	fp := filepath.Join(t.TempDir(), "selfie.png")
	f, err := os.Create(fp)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testFrame(32, 24)))
	require.NoError(t, f.Close())

	w := NewWidget(FileCamera{Path: fp})
	require.NoError(t, w.Open(t.Context()))
	img, err := w.Snap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Width)

	_, err = FileCamera{Path: filepath.Join(t.TempDir(), "missing.png")}.Open(t.Context())
	assert.Error(t, err)
}

func TestCommandCamera(t *testing.T) {
	t.Parallel()

	_, err := CommandCamera{}.Open(t.Context())
	assert.Error(t, err)

	_, err = CommandCamera{Command: []string{"definitely-not-a-camera-binary"}}.Open(t.Context())
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "camera-active", CameraActive.String())
	assert.Equal(t, "image-captured", ImageCaptured.String())
}
