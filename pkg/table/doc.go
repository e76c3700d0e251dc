// Package table implements the consolidated variant table: an ordered set of
// columns, ordered rows and an index from key tuple to row.
//
// Two invariants hold for every Table:
//
//   - no two rows share a key tuple (Append rejects duplicates), and
//   - every row carries a value for every column (AddColumn back-fills).
//
// Keys compare by exact typed value, so the string "100" and the integer 100
// are different keys.
//
// Example:
//
//	tbl := table.New("chrom", "pos")
//	err := tbl.Append(table.Row{"chrom": "1", "pos": int64(100), "gnomad": int64(1)})
//	row, ok := tbl.Lookup(table.KeyFromValues("1", int64(100)))
package table
