// Package sources wraps raw source data together with its resolved
// configuration.
//
// A Source moves through a fixed lifecycle:
//
//	Unloaded -> Loaded -> Preprocessed -> Merged -> Unloaded
//
// Raw records are held only between Load and Release, so merging a
// collection keeps at most one source's records in memory next to the table.
package sources

import (
	"fmt"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/config"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/types"
)

// State is a position in the source lifecycle.
type State int

// Lifecycle states.
const (
	StateUnloaded State = iota
	StateLoaded
	StatePreprocessed
	StateMerged
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StatePreprocessed:
		return "preprocessed"
	case StateMerged:
		return "merged"
	}
	return "unknown"
}

// Loader returns a source's raw records.
type Loader func() ([]table.Row, error)

// Source is a named, typed source of records with its resolved configuration.
type Source struct {
	name   string
	typ    types.SourceType
	cfg    *config.Configuration
	path   string
	dir    string
	loader Loader

	buffer table.Batch
	state  State
}

// New creates a source. The configuration is required and typ must be a
// known source type.
func New(name string, typ types.SourceType, cfg *config.Configuration, opts ...Option) (*Source, error) {
	if !typ.IsValid() {
		return nil, errors.NewUnsupportedSourceTypeError("create", name, string(typ))
	}
	if cfg == nil {
		return nil, fmt.Errorf("source %q: %w", name, errors.ErrConfigNotFound)
	}
	s := &Source{name: name, typ: typ, cfg: cfg}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
	}
	return s, nil
}

// Name returns the source name, also used as its indicator column.
func (s *Source) Name() string { return s.name }

// Type returns the source type tag.
func (s *Source) Type() types.SourceType { return s.typ }

// Config returns the resolved configuration.
func (s *Source) Config() *config.Configuration { return s.cfg }

// Path returns the raw data path once known.
func (s *Source) Path() string { return s.path }

// Dir returns the source directory, if the source was created from one.
func (s *Source) Dir() string { return s.dir }

// State returns the lifecycle state.
func (s *Source) State() State { return s.state }

// KeyCols returns the key columns of the source's configuration.
func (s *Source) KeyCols() []string { return s.cfg.KeyCols }

// Options returns the configuration's options mapping.
func (s *Source) Options() map[string]any { return s.cfg.Options }

// Annotations returns the source's annotation set.
func (s *Source) Annotations() *annotations.Set { return s.cfg.Annotations }

// Buffer returns the records currently held, nil when unloaded.
func (s *Source) Buffer() table.Batch { return s.buffer }

// Load reads the raw records. Loading an already loaded source is a no-op.
func (s *Source) Load() error {
	if s.state != StateUnloaded {
		return nil
	}
	if s.loader == nil {
		return errors.NewRawDataError(s.name, s.path, fmt.Errorf("no data location"))
	}
	rows, err := s.loader()
	if err != nil {
		return errors.NewRawDataError(s.name, s.path, err)
	}
	s.buffer = table.Batch(rows)
	s.state = StateLoaded
	return nil
}

// PreProcess applies the configured pre-processor to the loaded records.
// It fails with ErrPreprocessorMissing when none is configured.
func (s *Source) PreProcess() error {
	switch s.state {
	case StateUnloaded:
		return errors.NewRawDataError(s.name, s.path, fmt.Errorf("not loaded"))
	case StatePreprocessed, StateMerged:
		return nil
	}
	if !s.cfg.HasPreProcessor() {
		return fmt.Errorf("source %q: %w", s.name, errors.ErrPreprocessorMissing)
	}
	out, err := s.cfg.PreProcessor(s.buffer, s.cfg.Options)
	if err != nil {
		return fmt.Errorf("pre-processing %q with %s: %w", s.name, s.cfg.PreProcessorName, err)
	}
	s.buffer = out
	s.state = StatePreprocessed
	return nil
}

// MarkMerged records that the buffer has been merged into the table.
func (s *Source) MarkMerged() {
	if s.state == StatePreprocessed {
		s.state = StateMerged
	}
}

// Release drops the raw records and returns the source to StateUnloaded.
func (s *Source) Release() {
	s.buffer = nil
	s.state = StateUnloaded
}

// Records loads and pre-processes the source as needed and returns its
// records. Sources without a pre-processor return their raw records.
// The caller releases the source when done.
func (s *Source) Records() ([]table.Row, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	if s.state == StateLoaded && s.cfg.HasPreProcessor() {
		if err := s.PreProcess(); err != nil {
			return nil, err
		}
	}
	return s.buffer, nil
}

// String implements fmt.Stringer.
func (s *Source) String() string {
	return fmt.Sprintf("%s/%s", s.typ, s.name)
}
