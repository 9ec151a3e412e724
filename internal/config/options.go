// Package config loads the client options from defaults, a config file,
// FICHAJE_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/checkin"
	"github.com/fingertech/fichaje/internal/fileutil"
	"github.com/fingertech/fichaje/internal/log"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FICHAJE_"

// DefaultServerURL is the production fichajes backend.
const DefaultServerURL = "https://fichajes-backend.onrender.com"

// location providers
const (
	LocationNone   = "none"
	LocationStatic = "static"
	LocationHTTP   = "http"
)

// camera providers
const (
	CameraNone    = "none"
	CameraFile    = "file"
	CameraCommand = "command"
)

// Options are the client settings.
type Options struct {
	// ServerURL is the base URL of the fichajes backend.
	ServerURL string `mapstructure:"server_url"`
	// ReportURL overrides the base URL used for report downloads.
	ReportURL string `mapstructure:"report_url"`
	// Timeout bounds every backend request. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// HistorySize is the number of recent fichajes shown.
	HistorySize int `mapstructure:"history_size"`
	// SessionDir is where the token is persisted.
	SessionDir string `mapstructure:"session_dir"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	Location LocationOptions `mapstructure:"location"`
	Camera   CameraOptions   `mapstructure:"camera"`

	viper *viper.Viper
}

// LocationOptions select how the device position is obtained.
type LocationOptions struct {
	Provider      string  `mapstructure:"provider"`
	Latitude      float64 `mapstructure:"latitude"`
	Longitude     float64 `mapstructure:"longitude"`
	URL           string  `mapstructure:"url"`
	LatitudePath  string  `mapstructure:"latitude_path"`
	LongitudePath string  `mapstructure:"longitude_path"`
}

// CameraOptions select where snapshots come from.
type CameraOptions struct {
	Provider string   `mapstructure:"provider"`
	Path     string   `mapstructure:"path"`
	Command  []string `mapstructure:"command"`
	Width    int      `mapstructure:"width"`
	Height   int      `mapstructure:"height"`
	Quality  int      `mapstructure:"quality"`
}

var defaultOptions = Options{
	ServerURL:   DefaultServerURL,
	HistorySize: checkin.DefaultHistorySize,
	LogLevel:    "info",
	Location: LocationOptions{
		Provider: LocationNone,
	},
	Camera: CameraOptions{
		Provider: CameraNone,
		Width:    capture.DefaultWidth,
		Height:   capture.DefaultHeight,
		Quality:  capture.DefaultQuality,
	},
}

// NewDefaultOptions returns a copy of the default options.
func NewDefaultOptions() *Options {
	o := defaultOptions
	o.SessionDir = fileutil.CacheDir()
	o.viper = viper.New()
	return &o
}

var decodeHooks = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(" "),
))

// Load builds the options. Values set in flags win over the environment,
// which wins over configFile, which wins over the defaults. Flags are
// matched to keys by replacing dashes with underscores, or by flagAliases.
func Load(configFile string, flags *pflag.FlagSet) (*Options, error) {
	o := NewDefaultOptions()
	v := o.viper
	setDefaults(v, reflect.ValueOf(defaultOptions), "")
	v.SetDefault("session_dir", o.SessionDir)

	if _, err := bindEnvsRecursive(reflect.TypeOf(Options{}), v, "", EnvPrefix); err != nil {
		return nil, fmt.Errorf("config: failed to bind options to env vars: %w", err)
	}
	if flags != nil {
		if err := bindFlags(flags, v); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config %q: %w", configFile, err)
		}
	}

	var metadata mapstructure.Metadata
	if err := v.Unmarshal(o, decodeHooks, func(c *mapstructure.DecoderConfig) { c.Metadata = &metadata }); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}
	// Unmarshal overwrites the viper field.
	o.viper = v

	if err := checkUnknownKeys(configFile, metadata.Unused); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation error: %w", err)
	}
	return o, nil
}

var errUnknownConfigKeys = errors.New("config: unknown configuration options, please check logs for details")

func checkUnknownKeys(configFile string, unused []string) error {
	if len(unused) == 0 {
		return nil
	}
	for _, key := range unused {
		log.Error().Str("config-file", configFile).Str("key", key).Msg("unknown config option")
	}
	return errUnknownConfigKeys
}

func setDefaults(v *viper.Viper, rv reflect.Value, prefix string) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("mapstructure")
		if !ok || tag == "-" {
			continue
		}
		key := prefix + tag
		if t.Field(i).Type.Kind() == reflect.Struct {
			setDefaults(v, rv.Field(i), key+".")
			continue
		}
		v.SetDefault(key, rv.Field(i).Interface())
	}
}

// flagAliases maps short flag names to their option keys.
var flagAliases = map[string]string{
	"server": "server_url",
}

func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	keys := knownKeys()
	var errs *multierror.Error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagAliases[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if _, ok := keys[key]; !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("config: failed to bind flag %q: %w", f.Name, err))
		}
	})
	return errs.ErrorOrNil()
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			tag, ok := t.Field(i).Tag.Lookup("mapstructure")
			if !ok || tag == "-" {
				continue
			}
			if t.Field(i).Type.Kind() == reflect.Struct {
				walk(t.Field(i).Type, prefix+tag+".")
				continue
			}
			keys[prefix+tag] = struct{}{}
		}
	}
	walk(reflect.TypeOf(Options{}), "")
	return keys
}

// bindEnvsRecursive binds all fields of the provided struct type that have a
// "mapstructure" tag to corresponding environment variables, recursively.
func bindEnvsRecursive(t reflect.Type, v *viper.Viper, keyPrefix, envPrefix string) (bool, error) {
	anyFieldHasMapstructureTag := false
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, hasTag := field.Tag.Lookup("mapstructure")
		if !hasTag || tag == "-" {
			continue
		}

		anyFieldHasMapstructureTag = true

		key, _, _ := strings.Cut(tag, ",")
		keyPath := keyPrefix + key
		envName := envPrefix + strings.ToUpper(key)

		if field.Type.Kind() == reflect.Struct {
			nested, err := bindEnvsRecursive(field.Type, v, keyPath+".", envName+"_")
			if err != nil {
				return false, err
			} else if nested {
				continue
			}
		}

		if err := v.BindEnv(keyPath, envName); err != nil {
			return false, fmt.Errorf("failed to bind field '%s' to env var '%s': %w",
				field.Name, envName, err)
		}
	}
	return anyFieldHasMapstructureTag, nil
}

// Validate ensures the options are usable.
func (o *Options) Validate() error {
	var errs *multierror.Error

	if _, err := parseURL(o.ServerURL); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("server_url: %w", err))
	}
	if o.ReportURL != "" {
		if _, err := parseURL(o.ReportURL); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("report_url: %w", err))
		}
	}
	if o.Timeout < 0 {
		errs = multierror.Append(errs, errors.New("timeout: must not be negative"))
	}
	if o.HistorySize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("history_size: must be positive, got %d", o.HistorySize))
	}
	if _, err := log.ParseLevel(o.LogLevel); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log_level: %w", err))
	}

	if !IsValidLocationProvider(o.Location.Provider) {
		errs = multierror.Append(errs, fmt.Errorf("location.provider: unknown provider %q", o.Location.Provider))
	}
	switch o.Location.Provider {
	case LocationStatic:
		if err := o.Location.position().Validate(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("location: %w", err))
		}
	case LocationHTTP:
		if _, err := parseURL(o.Location.URL); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("location.url: %w", err))
		}
	}

	if !IsValidCameraProvider(o.Camera.Provider) {
		errs = multierror.Append(errs, fmt.Errorf("camera.provider: unknown provider %q", o.Camera.Provider))
	}
	switch o.Camera.Provider {
	case CameraFile:
		if o.Camera.Path == "" {
			errs = multierror.Append(errs, errors.New("camera.path: required for the file camera"))
		}
	case CameraCommand:
		if len(o.Camera.Command) == 0 {
			errs = multierror.Append(errs, errors.New("camera.command: required for the command camera"))
		}
	}
	if o.Camera.Width <= 0 || o.Camera.Height <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("camera: invalid size %dx%d", o.Camera.Width, o.Camera.Height))
	}
	if o.Camera.Quality < 1 || o.Camera.Quality > 100 {
		errs = multierror.Append(errs, fmt.Errorf("camera.quality: must be between 1 and 100, got %d", o.Camera.Quality))
	}

	return errs.ErrorOrNil()
}

// GetServerURL returns the parsed backend URL.
func (o *Options) GetServerURL() (*url.URL, error) {
	return parseURL(o.ServerURL)
}

// GetReportURL returns the parsed report URL, or nil when unset.
func (o *Options) GetReportURL() (*url.URL, error) {
	if o.ReportURL == "" {
		return nil, nil
	}
	return parseURL(o.ReportURL)
}

func parseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}
