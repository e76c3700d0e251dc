package config

import (
	"os"
	"slices"
	"sync"

	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/types"
)

// Registry holds unresolved configuration documents by source type and name.
// Entries registered from files or bytes are decoded on every lookup, so a
// malformed document surfaces as an error from Document. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.SourceType]map[string]entry
}

type entry struct {
	doc  *Document
	path string
	data []byte
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[types.SourceType]map[string]entry)}
}

// Register stores an in-memory document under typ and name.
func (r *Registry) Register(typ types.SourceType, name string, doc *Document) {
	c := doc.Clone()
	c.Name, c.Type = name, typ
	r.put(typ, name, entry{doc: c})
}

// RegisterBytes stores raw YAML to be decoded at lookup time.
func (r *Registry) RegisterBytes(typ types.SourceType, name, path string, data []byte) {
	r.put(typ, name, entry{path: path, data: slices.Clone(data)})
}

// RegisterFile stores a path to be read and decoded at lookup time.
func (r *Registry) RegisterFile(typ types.SourceType, name, path string) {
	r.put(typ, name, entry{path: path})
}

func (r *Registry) put(typ types.SourceType, name string, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[typ] == nil {
		r.entries[typ] = make(map[string]entry)
	}
	r.entries[typ][name] = e
}

// Has reports whether a document is registered under typ and name.
func (r *Registry) Has(typ types.SourceType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[typ][name]
	return ok
}

// Names returns the registered names of typ in lexical order.
func (r *Registry) Names(typ types.SourceType) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries[typ]))
	for name := range r.entries[typ] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Path returns the file path a document was registered from, if any.
func (r *Registry) Path(typ types.SourceType, name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.entries[typ][name]
	if e.doc != nil {
		return e.doc.Path
	}
	return e.path
}

// Document returns a private copy of the named document. It fails with
// ErrConfigNotFound when nothing is registered and ErrConfigMalformed when
// the stored YAML cannot be decoded.
func (r *Registry) Document(typ types.SourceType, name string) (*Document, error) {
	r.mu.RLock()
	e, ok := r.entries[typ][name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewConfigNotFoundError(name, typ.String())
	}
	if e.doc != nil {
		return e.doc.Clone(), nil
	}

	data := e.data
	if data == nil {
		var err error
		if data, err = os.ReadFile(e.path); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewConfigNotFoundError(name, typ.String())
			}
			return nil, errors.NewConfigMalformedError(name, e.path, err)
		}
	}
	return ParseDocument(name, typ, e.path, data)
}
