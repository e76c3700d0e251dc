// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete app, so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/vartable"
	"github.com/agentstation/vartable/internal/cmd/printer"
	"github.com/agentstation/vartable/pkg/collection"
)

// Interface defines the application context interface that commands need.
type Interface interface {
	// Client creates a vartable client. The configured sources root is
	// applied first, so opts may override it.
	Client(opts ...vartable.Option) (vartable.Client, error)

	// Collection scans a sources root, the configured one when root is empty.
	Collection(root string) (*collection.Collection, error)

	// SourcesRoot returns the configured sources directory.
	SourcesRoot() string

	// OutputPath returns the configured table export path.
	OutputPath() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Printer returns the status line printer.
	Printer() *printer.Printer

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
