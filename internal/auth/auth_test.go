package auth_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/auth"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/request"
	"github.com/fingertech/fichaje/internal/session"
	"github.com/fingertech/fichaje/internal/testutil"
	"github.com/fingertech/fichaje/internal/testutil/fakebackend"
)

type countingBackend struct {
	calls int
	token string
	err   error
}

func (b *countingBackend) Login(_ context.Context, _, _ string) (string, error) {
	b.calls++
	return b.token, b.err
}

func TestValidateDNI(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		dni string
		ok  bool
	}{
		{"1234567", true},
		{"12345678", true},
		{"123456789", true},
		{"123456", false},
		{"1234567890", false},
		{"1234567A", false},
		{"12 34567", false},
		{"", false},
		{"١٢٣٤٥٦٧", false},
	} {
		err := auth.ValidateDNI(tc.dni)
		if tc.ok {
			assert.NoError(t, err, tc.dni)
		} else {
			assert.True(t, auth.IsValidation(err), tc.dni)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, auth.ValidatePassword("secret"))
	assert.NoError(t, auth.ValidatePassword("contraseñas"))
	// characters outside the BMP count as two
	assert.NoError(t, auth.ValidatePassword("🔑🔑🔑"))
	assert.Error(t, auth.ValidatePassword("🔑🔑a"))
	assert.Error(t, auth.ValidatePassword("ñññññ"))
	err := auth.ValidatePassword("short")
	require.Error(t, err)
	assert.Equal(t, "⚠️ La contraseña debe tener al menos 6 caracteres.", err.Error())
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name, dni, password, message string
	}{
		{"letters in dni", "12A45678", "secreto1", "⚠️ El DNI debe contener entre 7 y 9 dígitos."},
		{"short dni", "123", "secreto1", "⚠️ El DNI debe contener entre 7 y 9 dígitos."},
		{"short password", "12345678", "12345", "⚠️ La contraseña debe tener al menos 6 caracteres."},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			backend := &countingBackend{token: "t"}
			sess := session.New(session.NewMemoryStore())
			res := auth.NewGate(backend, sess).Login(t.Context(), tc.dni, tc.password)
			assert.False(t, res.OK)
			assert.Equal(t, tc.message, res.Message)
			assert.Zero(t, backend.calls, "no network call on invalid input")
			assert.Empty(t, sess.Token())
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := testutil.GetContext(t, 10*time.Second)
	b := fakebackend.New(t)
	sess := session.New(session.NewMemoryStore())
	gate := auth.NewGate(api.New(b.URL()), sess)

	res := gate.Login(ctx, "12345678", "incorrecta")
	assert.False(t, res.OK)
	assert.Equal(t, "⚠️ DNI o contraseña incorrectos", res.Message)
	assert.Equal(t, request.Failed, gate.State())
	assert.Empty(t, sess.Token())

	res = gate.Login(ctx, "12345678", "secreto1")
	assert.True(t, res.OK)
	assert.Equal(t, auth.MessageLoginOK, res.Message)
	assert.Equal(t, request.Succeeded, gate.State())
	assert.Equal(t, "token-12345678", sess.Token())

	require.NoError(t, gate.Logout())
	assert.Empty(t, sess.Token())
}

func TestLoginLogsDNI(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := testutil.GetContext(t, 10*time.Second)
	b := fakebackend.New(t)
	gate := auth.NewGate(api.New(b.URL()), session.New(session.NewMemoryStore()))

	res := gate.Login(ctx, "12345678", "secreto1")
	require.True(t, res.OK)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if gjson.Get(line, "message").String() == "auth: logged in" {
			found = true
			assert.Equal(t, "12345678", gjson.Get(line, "dni").String())
		}
	}
	assert.True(t, found, "expected a login log line in %q", buf.String())
}

func TestLoginFallbackAndConnection(t *testing.T) {
	t.Parallel()

	sess := session.New(session.NewMemoryStore())

	res := auth.NewGate(&countingBackend{err: &api.Error{StatusCode: 500}}, sess).Login(t.Context(), "12345678", "secreto1")
	assert.Equal(t, "⚠️ Credenciales incorrectas", res.Message)

	res = auth.NewGate(&countingBackend{err: errors.Join(api.ErrUnreachable, errors.New("dial tcp"))}, sess).Login(t.Context(), "12345678", "secreto1")
	assert.Equal(t, auth.MessageConnection, res.Message)
	assert.False(t, res.OK)
}

type blockingBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Login(_ context.Context, _, _ string) (string, error) {
	close(b.entered)
	<-b.release
	return "t", nil
}

func TestLoginInFlight(t *testing.T) {
	t.Parallel()

	backend := &blockingBackend{entered: make(chan struct{}), release: make(chan struct{})}
	gate := auth.NewGate(backend, session.New(session.NewMemoryStore()))

	done := make(chan auth.Result)
	go func() { done <- gate.Login(t.Context(), "12345678", "secreto1") }()
	<-backend.entered

	res := gate.Login(t.Context(), "12345678", "secreto1")
	assert.ErrorIs(t, res.Err, request.ErrInFlight)

	close(backend.release)
	assert.True(t, (<-done).OK)
	assert.Equal(t, request.Succeeded, gate.State())
}
