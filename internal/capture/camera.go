package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for still files
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
)

// A FileCamera serves a still image file as its only frame.
type FileCamera struct {
	Path string
}

// Open checks that the file is readable.
func (c FileCamera) Open(_ context.Context) (Stream, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return &fileStream{path: c.Path}, nil
}

type fileStream struct {
	path string
}

func (s *fileStream) Frame(_ context.Context) (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func (s *fileStream) Close() error { return nil }

// A CommandCamera runs an external program that writes one encoded frame
// to stdout, for example `fswebcam --no-banner -`.
type CommandCamera struct {
	Command []string
}

// Open validates the command.
func (c CommandCamera) Open(_ context.Context) (Stream, error) {
	if len(c.Command) == 0 {
		return nil, errors.New("capture: empty camera command")
	}
	path, err := exec.LookPath(c.Command[0])
	if err != nil {
		return nil, err
	}
	return &commandStream{path: path, args: c.Command[1:]}, nil
}

type commandStream struct {
	path string
	args []string
}

func (s *commandStream) Frame(ctx context.Context) (image.Image, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.path, s.args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("capture: camera command: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	return img, err
}

func (s *commandStream) Close() error { return nil }
