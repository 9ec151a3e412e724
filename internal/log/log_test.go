package log_test

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingertech/fichaje/internal/log"
)

func captureOutput(f func()) {
	// In order to always output a static time to stdout for these
	// examples to pass, we need to override zerolog.TimestampFunc
	// and log.Logger globals -- you would not normally need to do this
	originalTimestampFunc := zerolog.TimestampFunc
	zerolog.TimestampFunc = func() time.Time {
		return time.Date(2008, 1, 8, 17, 5, 5, 0, time.UTC)
	}

	originalLogger := zerologlog.Logger
	newLogger := originalLogger.
		Output(os.Stdout).
		Level(zerolog.TraceLevel)
	zerologlog.Logger = newLogger
	zerolog.DefaultContextLogger = &newLogger

	f()

	zerolog.DefaultContextLogger = &originalLogger
	zerolog.TimestampFunc = originalTimestampFunc
	zerologlog.Logger = originalLogger
}

func ExampleWith() {
	captureOutput(func() {
		sublog := log.With().Str("dni", "12345678").Logger()
		sublog.Info().Msg("login")
	})
	// Output: {"level":"info","dni":"12345678","time":"2008-01-08T17:05:05Z","message":"login"}
}

func ExampleInfo() {
	captureOutput(func() {
		log.Info(context.Background()).Str("tipo", "entrada").Msg("fichaje registrado")
	})
	// Output: {"level":"info","tipo":"entrada","time":"2008-01-08T17:05:05Z","message":"fichaje registrado"}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := log.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = log.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = log.ParseLevel("chatty")
	assert.Error(t, err)
}

func ExampleWithContext() {
	captureOutput(func() {
		ctx := log.WithContext(context.Background(), func(c zerolog.Context) zerolog.Context {
			return c.Str("command", "fichar")
		})
		ctx = log.WithContext(ctx, func(c zerolog.Context) zerolog.Context {
			return c.Str("dni", "12345678")
		})
		log.Info(ctx).Msg("fichaje registrado")
	})
	// Output: {"level":"info","command":"fichar","dni":"12345678","time":"2008-01-08T17:05:05Z","message":"fichaje registrado"}
}

func TestSwapWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	sw := log.NewSwapWriter(&a)
	_, err := sw.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", a.String())

	sw.Set(&b)
	_, err = sw.Write([]byte("y"))
	require.NoError(t, err)
	assert.Equal(t, "x", a.String())
	assert.Equal(t, "y", b.String())

	sw.Set(nil)
	n, err := sw.Write([]byte("zz"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
