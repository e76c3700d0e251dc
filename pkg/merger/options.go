package merger

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/vartable/pkg/table"
)

type options struct {
	table    *table.Table
	tracking bool
	hooks    *Hooks
	logger   *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		tracking: true,
		hooks:    NewHooks(),
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithTable starts the engine from an existing table, such as a previously
// exported one. The table's key columns must match the engine's.
func WithTable(t *table.Table) Option {
	return func(o *options) error {
		if t == nil {
			return fmt.Errorf("table cannot be nil")
		}
		o.table = t
		return nil
	}
}

// WithProvenance enables or disables row-level provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithHooks installs event callbacks.
func WithHooks(h *Hooks) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("hooks cannot be nil")
		}
		o.hooks = h
		return nil
	}
}

// WithLogger logs through logger instead of the logger carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

func sameKeys(a, b []string) bool {
	return slices.Equal(a, b)
}
