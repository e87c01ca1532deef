// Package app provides the application context and dependency management
// for the ncreconcile CLI. It centralizes configuration, logging and the
// lifecycle of the log file sink.
package app

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/internal/ncfile"
	"github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

// App represents the ncreconcile application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	codec  check.Codec

	// Open log file sinks, closed on Shutdown
	mu      sync.Mutex
	closers []io.Closer
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		codec:   ncfile.New(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("config", "could not load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Codec returns the NetCDF codec.
func (a *App) Codec() check.Codec {
	return a.codec
}

// Settings returns the archive settings from the configuration.
func (a *App) Settings() application.Settings {
	return application.Settings{
		Dest:             a.config.Dest,
		LogDir:           a.config.LogDir,
		Overwrite:        a.config.Overwrite,
		KeepRejected:     a.config.KeepRejected,
		StationPrefix:    a.config.StationPrefix,
		ProfileVariables: a.config.ProfileVariables,
	}
}

// LogTo rebuilds the logger so it also writes JSON lines to
// <dir>/ncreconcile.log. The file is closed by Shutdown.
func (a *App) LogTo(dir string) (*zerolog.Logger, error) {
	logger, closer, err := OpenLogger(a.config, filepath.Join(dir, constants.LogFileName))
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.closers = append(a.closers, closer)
	a.logger = &logger
	a.mu.Unlock()

	return a.logger, nil
}

// Shutdown closes the log file sinks opened by LogTo.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = errors.WrapIO("close", "log file", err)
		}
	}
	return first
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCodec sets a custom dataset codec (useful for testing).
func WithCodec(codec check.Codec) Option {
	return func(a *App) error {
		a.codec = codec
		return nil
	}
}

var _ application.Application = (*App)(nil)
