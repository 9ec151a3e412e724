package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingertech/fichaje/internal/session"
	"github.com/fingertech/fichaje/internal/testutil"
)

func TestFileStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := session.NewFileStore(dir, "https://fichajes-backend.onrender.com")
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Save("tok"))
	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	fi, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	other, err := session.NewFileStore(dir, "http://localhost:3000")
	require.NoError(t, err)
	assert.NotEqual(t, store.Path(), other.Path())
	_, err = other.Load()
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestFileStoreEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := session.NewFileStore(dir, "k")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, session.FileName("k")), []byte("\n"), 0o600))

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestFileName(t *testing.T) {
	t.Parallel()

	a := session.FileName("https://a.example.com")
	assert.Equal(t, a, session.FileName("https://a.example.com"))
	assert.NotEqual(t, a, session.FileName("https://b.example.com"))
	assert.Equal(t, ".jwt", filepath.Ext(a))
}

func TestSession(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	s := session.New(store)
	assert.Empty(t, s.Token())
	assert.ErrorIs(t, s.Check(), session.ErrNotFound)

	require.NoError(t, s.Set("opaque"))
	assert.Equal(t, "opaque", s.Token())
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque", stored)
	assert.NoError(t, s.Check(), "opaque tokens are left to the backend")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionLoadsStoredToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	require.NoError(t, store.Save("from-disk"))
	assert.Equal(t, "from-disk", session.New(store).Token())
}

func TestSessionCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		name   string
		exp    time.Time
		expect error
	}{
		{"valid", now.Add(time.Hour), nil},
		{"expired", now.Add(-time.Minute), session.ErrExpired},
		{"no expiry", time.Time{}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := session.New(session.NewMemoryStore(), session.WithNow(func() time.Time { return now }))
			require.NoError(t, s.Set(testutil.Token(t, "12345678", tc.exp)))
			if tc.expect == nil {
				assert.NoError(t, s.Check())
			} else {
				assert.ErrorIs(t, s.Check(), tc.expect)
			}
		})
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Unix(1893456000, 0)
	got, err := session.Expiry(testutil.Token(t, "12345678", exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	_, err = session.Expiry("not-a-jwt")
	assert.ErrorIs(t, err, session.ErrInvalid)
}
