package vartable

import (
	"fmt"
	"slices"

	"github.com/agentstation/vartable/pkg/config"
	"github.com/agentstation/vartable/pkg/constants"
)

// options holds the configuration of a Client.
type options struct {
	root          string
	keyCols       []string
	sources       []string
	existingTable string
	provenance    bool
	resolver      *config.Resolver
}

func defaults() *options {
	return &options{
		provenance: true,
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	return o, nil
}

// WithRoot configures the sources directory to scan.
func WithRoot(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return fmt.Errorf("root cannot be empty")
		}
		o.root = dir
		return nil
	}
}

// WithKeyCols overrides the key columns, which otherwise come from the
// default variant configuration.
func WithKeyCols(cols ...string) Option {
	return func(o *options) error {
		if slices.Contains(cols, "") {
			return fmt.Errorf("key columns cannot be empty")
		}
		o.keyCols = slices.Clone(cols)
		return nil
	}
}

// WithSources restricts the variant sources merged to names, in that order.
// All discovered variant sources are merged in lexical order otherwise.
func WithSources(names ...string) Option {
	return func(o *options) error {
		for _, name := range names {
			if name == constants.DefaultConfigName {
				return fmt.Errorf("%q is not a source", name)
			}
		}
		o.sources = slices.Clone(names)
		return nil
	}
}

// WithExistingTable starts the merge from a previously exported table.
func WithExistingTable(path string) Option {
	return func(o *options) error {
		o.existingTable = path
		return nil
	}
}

// WithProvenance enables or disables row provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.provenance = enabled
		return nil
	}
}

// WithResolver uses a prepared configuration resolver instead of the
// configurations found under the root.
func WithResolver(r *config.Resolver) Option {
	return func(o *options) error {
		if r == nil {
			return fmt.Errorf("resolver cannot be nil")
		}
		o.resolver = r
		return nil
	}
}
