package builtin

import (
	"fmt"
	"strings"

	"github.com/agentstation/vartable/pkg/table"
)

// StandardPreProcessor normalises raw records using options.columns:
//
//	columns:
//	  lowercase: true        # lower-case every column name first
//	  rename: {CHROM: chrom} # then rename columns
//	  drop: [INFO]           # then drop columns
//	  types: {pos: int}      # then convert cells (string, int, float, bool)
//
// Records are rewritten in place.
func StandardPreProcessor(records table.Batch, options map[string]any) (table.Batch, error) {
	cols := mapping(options["columns"])
	lower, _ := cols["lowercase"].(bool)
	rename := mapping(cols["rename"])
	drop := stringList(cols["drop"])
	types := ColumnTypes(options)

	for i, row := range records {
		out := make(table.Row, len(row))
		for col, v := range row {
			name := col
			if lower {
				name = strings.ToLower(name)
			}
			if to, ok := rename[name]; ok {
				name = fmt.Sprint(to)
			}
			out[name] = table.Normalize(v)
		}
		for _, col := range drop {
			delete(out, col)
		}
		for col, typ := range types {
			v, ok := out[col]
			if !ok {
				continue
			}
			converted, err := table.Convert(v, typ)
			if err != nil {
				return nil, fmt.Errorf("record %d column %q: %w", i, col, err)
			}
			out[col] = converted
		}
		records[i] = out
	}
	return records, nil
}

// ColumnTypes returns the options.columns.types mapping of column name to
// column type.
func ColumnTypes(options map[string]any) map[string]string {
	types := mapping(mapping(options["columns"])["types"])
	out := make(map[string]string, len(types))
	for col, typ := range types {
		out[col] = fmt.Sprint(typ)
	}
	return out
}
