package table

import "slices"

// FillValue is the value written into cells of back-filled columns.
var FillValue any = int64(0)

// Row maps column names to cell values. Values are string, int64, float64,
// bool or nil.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the row has a cell for column, nil cells included.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Batch is an ordered set of records handled together, typically the new
// records of one merge.
type Batch []Row

// Columns returns the union of the batch's column names in first-seen order.
// Column order within a single row is not defined, so names first seen in the
// same row are sorted.
func (b Batch) Columns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range b {
		fresh := make([]string, 0)
		for col := range row {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				fresh = append(fresh, col)
			}
		}
		slices.Sort(fresh)
		out = append(out, fresh...)
	}
	return out
}

// Set assigns value to column on every row of the batch.
func (b Batch) Set(column string, value any) {
	for _, row := range b {
		row[column] = value
	}
}

// Clone deep copies the batch so that mutating it leaves b untouched.
func (b Batch) Clone() Batch {
	out := make(Batch, len(b))
	for i, row := range b {
		out[i] = row.Clone()
	}
	return out
}
