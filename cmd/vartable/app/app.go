// Package app provides the application context and dependency management
// for the vartable CLI. It centralizes configuration, logging and the
// construction of vartable clients.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/vartable"
	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/internal/cmd/printer"
	"github.com/agentstation/vartable/pkg/collection"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the vartable application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
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

// SourcesRoot returns the configured sources directory.
func (a *App) SourcesRoot() string {
	return a.config.SourcesRoot
}

// OutputPath returns the configured table export path.
func (a *App) OutputPath() string {
	return a.config.OutputPath
}

// Printer returns a status line printer on stdout.
func (a *App) Printer() *printer.Printer {
	return printer.Stdout(a.config.NoColor)
}

// Client creates a vartable client rooted at the configured sources
// directory. opts are applied after the root.
func (a *App) Client(opts ...vartable.Option) (vartable.Client, error) {
	base := []vartable.Option{vartable.WithRoot(a.config.SourcesRoot)}
	client, err := vartable.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// Collection scans root, or the configured sources directory when root is empty.
func (a *App) Collection(root string) (*collection.Collection, error) {
	if root == "" {
		root = a.config.SourcesRoot
	}
	return collection.Scan(root)
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
