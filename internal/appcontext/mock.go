package appcontext

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/vartable"
	"github.com/agentstation/vartable/internal/cmd/printer"
	"github.com/agentstation/vartable/pkg/collection"
)

// Compile-time interface check.
var _ Interface = (*Mock)(nil)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method falls back to a working default
// rooted at Root.
type Mock struct {
	Root   string
	Format string
	Output string
	Out    io.Writer

	ClientFunc     func(...vartable.Option) (vartable.Client, error)
	CollectionFunc func(string) (*collection.Collection, error)
	LoggerFunc     func() *zerolog.Logger
	VersionFunc    func() string
}

// Client returns a client using the mock function or a real client on Root.
func (m *Mock) Client(opts ...vartable.Option) (vartable.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return vartable.New(append([]vartable.Option{vartable.WithRoot(m.Root)}, opts...)...)
}

// Collection returns a collection using the mock function or scans root.
func (m *Mock) Collection(root string) (*collection.Collection, error) {
	if m.CollectionFunc != nil {
		return m.CollectionFunc(root)
	}
	if root == "" {
		root = m.Root
	}
	return collection.Scan(root)
}

// SourcesRoot returns Root.
func (m *Mock) SourcesRoot() string {
	return m.Root
}

// OutputPath returns Output.
func (m *Mock) OutputPath() string {
	return m.Output
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Printer returns an uncolored printer writing to Out, or discarding.
func (m *Mock) Printer() *printer.Printer {
	out := m.Out
	if out == nil {
		out = io.Discard
	}
	return printer.New(out, out, true)
}

// OutputFormat returns Format.
func (m *Mock) OutputFormat() string {
	return m.Format
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string {
	return "unknown"
}

// Date returns "unknown".
func (m *Mock) Date() string {
	return "unknown"
}

// BuiltBy returns "unknown".
func (m *Mock) BuiltBy() string {
	return "unknown"
}
