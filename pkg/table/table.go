package table

import (
	"fmt"
	"slices"

	"github.com/agentstation/vartable/pkg/errors"
)

// Table is the consolidated table. It is not safe for concurrent use.
type Table struct {
	keyCols []string
	columns []string
	colSet  map[string]struct{}
	rows    []Row
	index   map[string]int
}

// New creates an empty table keyed by keyCols. The key columns are the
// table's first columns.
func New(keyCols ...string) *Table {
	t := &Table{
		keyCols: append([]string(nil), keyCols...),
		colSet:  make(map[string]struct{}),
		index:   make(map[string]int),
	}
	for _, col := range keyCols {
		t.addColumnName(col)
	}
	return t
}

// FromRows builds a table from rows already in memory, such as a previously
// exported table. Columns are taken in the given order; rows missing a column
// are filled with FillValue. Duplicate keys fail with ErrDuplicateKey.
func FromRows(keyCols, columns []string, rows []Row) (*Table, error) {
	t := New(keyCols...)
	for _, col := range columns {
		t.AddColumn(col, FillValue)
	}
	if err := t.Append(rows...); err != nil {
		return nil, err
	}
	return t, nil
}

// KeyCols returns the key column names.
func (t *Table) KeyCols() []string {
	return slices.Clone(t.keyCols)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Rows returns the rows in insertion order. The rows are the table's own;
// callers must use Set to change a cell.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// AddColumn appends a column and writes fill into it on every existing row.
// It returns false when the column already exists.
func (t *Table) AddColumn(name string, fill any) bool {
	if t.HasColumn(name) {
		return false
	}
	t.addColumnName(name)
	for _, row := range t.rows {
		row[name] = fill
	}
	return true
}

// Reconcile adds every column of batch missing from the table, back-filled
// with FillValue, then fills table columns missing from batch rows. It
// returns the names of the columns added to the table.
func (t *Table) Reconcile(batch Batch) []string {
	var added []string
	for _, col := range batch.Columns() {
		if t.AddColumn(col, FillValue) {
			added = append(added, col)
		}
	}
	for _, row := range batch {
		for _, col := range t.columns {
			if !row.Has(col) {
				row[col] = FillValue
			}
		}
	}
	return added
}

// KeyOf returns the key tuple of row.
func (t *Table) KeyOf(row Row) (Key, error) {
	return KeyFromRow(t.keyCols, row)
}

// Lookup returns the row stored under key.
func (t *Table) Lookup(key Key) (Row, bool) {
	i, ok := t.index[key.ID()]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}

// Contains reports whether a row with key exists.
func (t *Table) Contains(key Key) bool {
	_, ok := t.index[key.ID()]
	return ok
}

// Append adds rows to the end of the table. Rows are reconciled against the
// table's columns first. Nothing is appended when any row is missing a key
// column or collides with an existing key or with another appended row.
func (t *Table) Append(rows ...Row) error {
	keys := make([]Key, len(rows))
	pending := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		key, err := t.KeyOf(row)
		if err != nil {
			return err
		}
		if _, dup := pending[key.ID()]; dup || t.Contains(key) {
			return errors.NewDuplicateKeyError(key.String())
		}
		pending[key.ID()] = struct{}{}
		keys[i] = key
	}

	t.Reconcile(Batch(rows))
	for i, row := range rows {
		t.index[keys[i].ID()] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return nil
}

// Set writes value into column of the row stored under key. A missing column
// is added first with FillValue back-fill.
func (t *Table) Set(key Key, column string, value any) error {
	row, ok := t.Lookup(key)
	if !ok {
		return fmt.Errorf("set %s on %s: %w", column, key, errors.ErrRowNotFound)
	}
	if !t.HasColumn(column) {
		t.AddColumn(column, FillValue)
	}
	row[column] = value
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := New(t.keyCols...)
	for _, col := range t.columns {
		c.addColumnName(col)
	}
	c.rows = make([]Row, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = row.Clone()
	}
	for id, i := range t.index {
		c.index[id] = i
	}
	return c
}

func (t *Table) addColumnName(name string) {
	if _, ok := t.colSet[name]; ok {
		return
	}
	t.colSet[name] = struct{}{}
	t.columns = append(t.columns, name)
}
