// Package config resolves the configuration of a source by deep-merging the
// source's own document over the shared default document of its type, then
// binding the function names it references through a functions.Registry.
//
// Documents are YAML mappings decoded with key order preserved, so that the
// order of annotations is the order in which they are written.
package config

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/types"
)

// Document keys with special merge or binding rules.
const (
	KeyKeyCols      = "key_cols"
	KeyDescription  = "description"
	KeyPreProcessor = "pre_processor"
	KeyOptions      = "options"
	KeyAnnotations  = "annotations"
	KeyValidator    = "validator"
	KeyData         = "data"
)

// Document is an unresolved configuration document.
type Document struct {
	Name string
	Type types.SourceType
	Path string
	Body yaml.MapSlice
}

// NewDocument wraps an in-memory body.
func NewDocument(name string, typ types.SourceType, body yaml.MapSlice) *Document {
	return &Document{Name: name, Type: typ, Body: body}
}

// ParseDocument decodes a YAML document. Anything that is not a mapping
// fails with ErrConfigMalformed.
func ParseDocument(name string, typ types.SourceType, path string, data []byte) (*Document, error) {
	var body yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &body, yaml.UseOrderedMap()); err != nil {
		return nil, errors.NewConfigMalformedError(name, path, err)
	}
	return &Document{Name: name, Type: typ, Path: path, Body: body}, nil
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	return lookup(d.Body, key)
}

// Clone deep copies the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Body = cloneMap(d.Body)
	return &c
}

// DataPrefix returns the document's data.prefix, empty when it has none or
// the data section cannot be bound.
func (d *Document) DataPrefix() string {
	v, _ := d.Get(KeyData)
	data, err := bindData(v)
	if err != nil {
		return ""
	}
	return data.Prefix
}

// YAML encodes the document body.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d.Body)
}

func lookup(m yaml.MapSlice, key string) (any, bool) {
	for _, item := range m {
		if keyString(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func cloneMap(m yaml.MapSlice) yaml.MapSlice {
	if m == nil {
		return nil
	}
	out := make(yaml.MapSlice, len(m))
	for i, item := range m {
		out[i] = yaml.MapItem{Key: keyString(item.Key), Value: cloneValue(item.Value)}
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
