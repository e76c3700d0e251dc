package table

import (
	"fmt"
	"strings"

	"github.com/agentstation/vartable/pkg/errors"
)

// Key is the tuple of a row's values at the key columns.
type Key struct {
	values []any
	id     string
}

// KeyFromValues builds a key from values given in key column order.
func KeyFromValues(values ...any) Key {
	var b strings.Builder
	for _, v := range values {
		// the type is part of the identity: "100" != int64(100)
		part := fmt.Sprintf("%T:%v", v, v)
		fmt.Fprintf(&b, "%d:%s", len(part), part)
	}
	return Key{values: append([]any(nil), values...), id: b.String()}
}

// KeyFromRow extracts the key tuple of row for keyCols.
// It fails with ErrKeyMissing when the row lacks a key column.
func KeyFromRow(keyCols []string, row Row) (Key, error) {
	values := make([]any, len(keyCols))
	for i, col := range keyCols {
		v, ok := row[col]
		if !ok {
			return Key{}, errors.NewKeyMissingError(col)
		}
		values[i] = v
	}
	return KeyFromValues(values...), nil
}

// Values returns the key's values in key column order.
func (k Key) Values() []any {
	return append([]any(nil), k.values...)
}

// ID returns a comparable encoding of the key, usable as a map key.
func (k Key) ID() string {
	return k.id
}

// Equal reports whether two keys hold the same typed values in the same order.
func (k Key) Equal(other Key) bool {
	return k.id == other.id
}

// String renders the key as a tuple, e.g. ("1", 100).
func (k Key) String() string {
	parts := make([]string, len(k.values))
	for i, v := range k.values {
		if s, ok := v.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
			continue
		}
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
