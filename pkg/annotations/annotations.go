// Package annotations holds the ordered set of derived columns a source
// computes on the rows it inserts into the consolidated table.
//
// An annotation is computed exactly once per row, on the batch of new records
// being inserted. Rows already in the table keep the values they were given
// by the source that inserted them.
package annotations

import (
	"fmt"
	"slices"

	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
)

// ComputeFunc sets column name on every row of batch. It must be
// deterministic and read only the batch's own columns.
type ComputeFunc func(name string, batch table.Batch) error

// Annotation is a named derived column.
type Annotation struct {
	Name        string         `yaml:"name" json:"name"`
	Type        string         `yaml:"type,omitempty" json:"type,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Function    string         `yaml:"compute,omitempty" json:"compute,omitempty"`
	Params      map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
	Compute     ComputeFunc    `yaml:"-" json:"-"`
}

// Set is an ordered collection of annotations keyed by name.
// The zero value is ready to use.
type Set struct {
	order []string
	items map[string]*Annotation
}

// NewSet creates a set holding annotations in the given order.
func NewSet(items ...*Annotation) *Set {
	s := &Set{}
	for _, a := range items {
		s.Add(a)
	}
	return s
}

// Add appends an annotation. Adding a name that already exists replaces
// the annotation in place, keeping its position.
func (s *Set) Add(a *Annotation) {
	if s.items == nil {
		s.items = make(map[string]*Annotation)
	}
	if _, ok := s.items[a.Name]; !ok {
		s.order = append(s.order, a.Name)
	}
	s.items[a.Name] = a
}

// Get returns the named annotation.
func (s *Set) Get(name string) (*Annotation, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.items[name]
	return a, ok
}

// Names returns annotation names in registration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// List returns annotations in registration order.
func (s *Set) List() []*Annotation {
	if s == nil {
		return nil
	}
	out := make([]*Annotation, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.items[name])
	}
	return out
}

// Len returns the number of annotations.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Required returns the names of annotations marked required.
func (s *Set) Required() []string {
	var out []string
	for _, a := range s.List() {
		if a.Required {
			out = append(out, a.Name)
		}
	}
	return out
}

// Compute runs every annotation on batch in registration order. Each
// annotation must leave a value in its column on every row, otherwise
// ErrAnnotationIncomplete is returned.
func (s *Set) Compute(batch table.Batch) error {
	if len(batch) == 0 {
		return nil
	}
	for _, a := range s.List() {
		if a.Compute == nil {
			return fmt.Errorf("annotation %q has no compute function: %w", a.Name, errors.ErrUnknownFunction)
		}
		if err := a.Compute(a.Name, batch); err != nil {
			return fmt.Errorf("computing annotation %q: %w", a.Name, err)
		}
		for i, row := range batch {
			if !row.Has(a.Name) {
				return fmt.Errorf("annotation %q left row %d unset: %w", a.Name, i, errors.ErrAnnotationIncomplete)
			}
		}
	}
	return nil
}
