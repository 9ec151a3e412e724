package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/auth"
	"github.com/fingertech/fichaje/internal/checkin"
	"github.com/fingertech/fichaje/internal/config"
	"github.com/fingertech/fichaje/internal/fileutil"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/session"
)

// app holds the services shared by every command.
type app struct {
	options *config.Options
	http    *http.Client
	client  *api.Client
	session *session.Session
	logFile io.Closer
}

type appMode int

const (
	modeCLI appMode = iota
	// modeTUI keeps the terminal free by logging to a file.
	modeTUI
)

func newApp(cmd *cobra.Command, flags *rootFlags, mode appMode) (*app, error) {
	configFile := flags.configFile
	if configFile == "" {
		configFile = defaultConfigFile()
	}
	o, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{options: o}
	if err := a.setupLogger(mode); err != nil {
		return nil, fmt.Errorf("error setting up logger: %w", err)
	}

	a.http = o.NewHTTPClient()
	if a.client, err = o.NewAPIClient(a.http); err != nil {
		return nil, err
	}
	if a.session, err = o.NewSession(); err != nil {
		return nil, err
	}
	log.Debug(cmd.Context()).
		Str("config-file", configFile).
		Str("server-url", o.ServerURL).
		Str("session-dir", o.SessionDir).
		Msg("fichaje: configured")
	return a, nil
}

// defaultConfigFile returns the per-user config file when it exists.
func defaultConfigFile() string {
	dir := fileutil.ConfigDir()
	if dir == "" {
		return ""
	}
	p := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func (a *app) setupLogger(mode appMode) error {
	lvl, err := log.ParseLevel(a.options.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	path := a.options.LogFile
	if path == "" && mode == modeTUI {
		path = filepath.Join(fileutil.CacheDir(), "fichaje.log")
	}
	if path == "" {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			log.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	a.logFile = f
	return nil
}

func (a *app) Close() error {
	if a.logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	return a.logFile.Close()
}

func (a *app) gate() *auth.Gate {
	return auth.NewGate(a.client, a.session)
}

func (a *app) submitter() *checkin.Submitter {
	return checkin.NewSubmitter(a.client, a.session, checkin.NewHistory(a.options.HistorySize))
}

func (a *app) resolver(locator location.Locator) *location.Resolver {
	return location.NewResolver(locator, checkin.NewGeocoder(a.client, a.session))
}

// requireSession fails when there is no usable token.
func (a *app) requireSession() error {
	err := a.session.Check()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNotFound):
		return errors.New("no hay sesión iniciada, ejecuta `fichaje login`")
	}
	if err := a.session.Clear(); err != nil {
		log.Error().Err(err).Msg("fichaje: failed to clear session")
	}
	return errors.New(auth.MessageSessionExpired)
}
