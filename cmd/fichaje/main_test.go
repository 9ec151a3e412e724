package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/testutil/fakebackend"
)

func execute(t *testing.T, b *fakebackend.Backend, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append(args, "--server", b.URL().String(), "--log-level", "error"))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func TestCommands(t *testing.T) {
	t.Setenv("FICHAJE_SESSION_DIR", t.TempDir())
	b := fakebackend.New(t)

	out, err := execute(t, b, "", "historial")
	assert.ErrorContains(t, err, "fichaje login")
	assert.Empty(t, out)

	out, err = execute(t, b, "12345678\nmal-clave\n", "login")
	assert.ErrorIs(t, err, errLoginFailed)
	assert.Contains(t, out, "⚠️ DNI o contraseña incorrectos")

	out, err = execute(t, b, "secreto1\n", "login", "--dni", "12345678")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Inicio de sesión exitoso")

	out, err = execute(t, b, "", "ubicacion", "--config", writeConfig(t, "location:\n  provider: static\n  latitude: 40.4168\n  longitude: -3.7038\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "Coordenadas: 40.4168,-3.7038")
	assert.Contains(t, out, "Ubicación: 📍 Calle Mayor 1, Madrid")

	out, err = execute(t, b, "", "fichar", "--lat", "40.4168", "--lon", "-3.7038")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Fichaje registrado: ENTRADA")

	out, err = execute(t, b, "", "fichar")
	assert.ErrorIs(t, err, errFicharFailed)
	assert.Contains(t, out, "❌ La geolocalización no está soportada en este dispositivo")
	assert.Contains(t, out, "⚠️ Ubicación no válida, intenta nuevamente.")

	out, err = execute(t, b, "", "historial")
	require.NoError(t, err)
	assert.Contains(t, out, "ENTRADA")

	report := filepath.Join(t.TempDir(), "out", "fichajes.csv")
	out, err = execute(t, b, "", "reporte", "csv", "-o", report)
	require.NoError(t, err)
	assert.Contains(t, out, report)
	bs, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, b.State().Reports[api.ReportCSV], bs)

	_, err = execute(t, b, "", "reporte", "pdf")
	assert.ErrorContains(t, err, "pdf")

	out, err = execute(t, b, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión cerrada")

	_, err = execute(t, b, "", "fichar", "--lat", "1", "--lon", "1")
	assert.ErrorContains(t, err, "fichaje login")
}

func TestReportFailureKeepsExistingFile(t *testing.T) {
	t.Setenv("FICHAJE_SESSION_DIR", t.TempDir())
	b := fakebackend.New(t)
	b.Update(func(s *fakebackend.State) { delete(s.Reports, api.ReportExcel) })

	report := filepath.Join(t.TempDir(), "fichajes.xlsx")
	require.NoError(t, os.WriteFile(report, []byte("previous"), 0o600))

	_, err := execute(t, b, "", "reporte", "excel", "-o", report)
	assert.True(t, api.IsRejected(err))
	bs, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(bs))
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}

func TestCommandNameInLogContext(t *testing.T) {
	var buf bytes.Buffer
	lvl := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(zerolog.InfoLevel)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(lvl)
	})

	root := newRootCommand()
	sub, _, err := root.Find([]string{"historial"})
	require.NoError(t, err)
	sub.SetContext(t.Context())
	root.PersistentPreRun(sub, nil)

	log.Info(sub.Context()).Msg("listing")
	assert.Equal(t, "historial", gjson.Get(buf.String(), "command").String())
}
