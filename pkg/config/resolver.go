package config

import (
	"context"

	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/types"
)

// Resolver resolves source configurations against a Registry.
type Resolver struct {
	registry    *Registry
	functions   *functions.Registry
	defaultName string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFunctions binds function names through fns instead of functions.Default.
func WithFunctions(fns *functions.Registry) Option {
	return func(r *Resolver) {
		r.functions = fns
	}
}

// WithDefaultName changes the name of the default document.
func WithDefaultName(name string) Option {
	return func(r *Resolver) {
		r.defaultName = name
	}
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry:    registry,
		functions:   functions.Default(),
		defaultName: constants.DefaultConfigName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the document registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// DefaultName returns the name of the configuration every source inherits from.
func (r *Resolver) DefaultName() string {
	return r.defaultName
}

// Load returns the raw document registered for name and typ.
func (r *Resolver) Load(name string, typ types.SourceType) (*Document, error) {
	if !typ.IsValid() {
		return nil, errors.NewUnsupportedSourceTypeError("load", name, string(typ))
	}
	return r.registry.Document(typ, name)
}

// Default resolves the default configuration of typ. Any error is fatal
// to the caller.
func (r *Resolver) Default(ctx context.Context, typ types.SourceType) (*Configuration, error) {
	doc, err := r.Load(r.defaultName, typ)
	if err != nil {
		return nil, err
	}
	cfg, err := bind(r.defaultName, typ, Merge(nil, doc.Body), r.functions)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Str("source_type", typ.String()).
		Strs("key_cols", cfg.KeyCols).
		Strs("annotations", cfg.AnnotationNames()).
		Msg("Resolved default configuration")
	return cfg, nil
}

// Resolve merges name's document over the default of typ and binds it.
//
// Errors concerning the default document are returned. Any error loading,
// decoding or binding name's own document is logged as a warning and the
// pure default configuration is returned instead, marked Defaulted.
func (r *Resolver) Resolve(ctx context.Context, name string, typ types.SourceType) (*Configuration, error) {
	def, err := r.Default(ctx, typ)
	if err != nil {
		return nil, err
	}
	if name == r.defaultName {
		return def, nil
	}

	logger := logging.FromContext(ctx).With().
		Str("source", name).
		Str("source_type", typ.String()).
		Logger()

	fallback := func(err error) *Configuration {
		logger.Warn().Err(err).Msg("Using default configuration")
		cfg := *def
		cfg.Name = name
		cfg.Defaulted = true
		return &cfg
	}

	doc, err := r.Load(name, typ)
	if err != nil {
		return fallback(err), nil
	}

	cfg, err := bind(name, typ, Merge(def.Document, doc.Body), r.functions)
	if err != nil {
		return fallback(err), nil
	}
	if err := cfg.Validate(); err != nil {
		return fallback(err), nil
	}

	logger.Debug().
		Strs("annotations", cfg.AnnotationNames()).
		Str("pre_processor", cfg.PreProcessorName).
		Msg("Resolved configuration")
	return cfg, nil
}
