// Package functions is the registry that maps the function names used in
// configuration documents (pre_processor, annotations.*.compute, validator)
// to Go implementations.
//
// Built-in functions are registered into Default by the builtin package:
//
//	import _ "github.com/agentstation/vartable/pkg/functions/builtin"
//
// Programs can register their own functions on Default or on a private
// Registry passed to the configuration resolver.
package functions

import (
	"fmt"
	"slices"
	"sync"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
)

// Dataset is the view of a source a validator receives.
type Dataset interface {
	Name() string
	// Options is the resolved configuration's options mapping.
	Options() map[string]any
	// Records returns the source's pre-processed records.
	Records() ([]table.Row, error)
}

// PreProcessor turns a source's raw records into records ready to merge.
// options is the resolved configuration's options mapping.
type PreProcessor func(records table.Batch, options map[string]any) (table.Batch, error)

// ComputeBuilder binds an annotation's params into a compute function.
type ComputeBuilder func(params map[string]any) (annotations.ComputeFunc, error)

// Validator checks the consolidated table against a validation source.
// A non-nil returned table replaces the consolidated table.
type Validator func(src Dataset, tbl *table.Table) (*table.Table, error)

// Kind names a function family.
type Kind string

// Function kinds.
const (
	KindPreProcessor Kind = "pre_processor"
	KindCompute      Kind = "compute"
	KindValidator    Kind = "validator"
)

// Registry maps names to functions. It is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	preProcessors map[string]PreProcessor
	computes      map[string]ComputeBuilder
	validators    map[string]Validator
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		preProcessors: make(map[string]PreProcessor),
		computes:      make(map[string]ComputeBuilder),
		validators:    make(map[string]Validator),
	}
}

// RegisterPreProcessor registers fn under name, replacing any previous entry.
func (r *Registry) RegisterPreProcessor(name string, fn PreProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preProcessors[name] = fn
}

// RegisterCompute registers an annotation compute builder under name.
func (r *Registry) RegisterCompute(name string, build ComputeBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.computes[name] = build
}

// RegisterValidator registers fn under name.
func (r *Registry) RegisterValidator(name string, fn Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = fn
}

// PreProcessor returns the named pre-processor.
func (r *Registry) PreProcessor(name string) (PreProcessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.preProcessors[name]
	if !ok {
		return nil, unknown(KindPreProcessor, name)
	}
	return fn, nil
}

// Compute binds params into the named compute function.
func (r *Registry) Compute(name string, params map[string]any) (annotations.ComputeFunc, error) {
	r.mu.RLock()
	build, ok := r.computes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, unknown(KindCompute, name)
	}
	fn, err := build(params)
	if err != nil {
		return nil, fmt.Errorf("binding compute %q: %w", name, err)
	}
	return fn, nil
}

// Validator returns the named validator.
func (r *Registry) Validator(name string) (Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.validators[name]
	if !ok {
		return nil, unknown(KindValidator, name)
	}
	return fn, nil
}

// Has reports whether a function of kind is registered under name.
func (r *Registry) Has(kind Kind, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch kind {
	case KindPreProcessor:
		_, ok := r.preProcessors[name]
		return ok
	case KindCompute:
		_, ok := r.computes[name]
		return ok
	case KindValidator:
		_, ok := r.validators[name]
		return ok
	}
	return false
}

// Names returns the sorted names registered for kind.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	switch kind {
	case KindPreProcessor:
		for name := range r.preProcessors {
			names = append(names, name)
		}
	case KindCompute:
		for name := range r.computes {
			names = append(names, name)
		}
	case KindValidator:
		for name := range r.validators {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func unknown(kind Kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, errors.ErrUnknownFunction)
}
