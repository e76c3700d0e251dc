package tablefile

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
)

// Tabular is anything with ordered columns and rows, such as *table.Table or *Data.
type Tabular interface {
	Columns() []string
	Rows() []table.Row
}

// Write encodes t to w in the given format, all rows in column order.
// nil cells are written empty and bools as true/false.
func Write(w io.Writer, format Format, t Tabular, opts ...Option) error {
	o := Defaults().Apply(opts...)
	switch format {
	case FormatCSV, FormatTSV:
		return writeDelimited(w, format.Delimiter(), t, o)
	case FormatXLSX:
		return writeXLSX(w, t, o)
	default:
		return errors.NewUnsupportedFormatError(format.String())
	}
}

// Save writes t to path, creating parent directories. The format comes
// from the extension unless WithFormat is given.
func Save(path string, t Tabular, opts ...Option) error {
	o := Defaults().Apply(opts...)
	format, ok := o.Format()
	if !ok {
		var err error
		if format, err = FormatOf(path); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, t, opts...); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return errors.WrapIO("write", path, os.WriteFile(path, buf.Bytes(), constants.FilePermissions))
}

func writeDelimited(w io.Writer, delim rune, t Tabular, o *Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	cols := t.Columns()
	if o.Header() {
		if err := cw.Write(cols); err != nil {
			return err
		}
	}
	rec := make([]string, len(cols))
	for _, row := range t.Rows() {
		for i, col := range cols {
			rec[i] = table.FormatValue(row[col])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, t Tabular, o *Options) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := o.Sheet()
	if sheet != constants.XLSXSheetName {
		if err := f.SetSheetName(constants.XLSXSheetName, sheet); err != nil {
			return err
		}
	}

	cols := t.Columns()
	line := 1
	if o.Header() {
		header := make([]any, len(cols))
		for i, col := range cols {
			header[i] = col
		}
		if err := setRow(f, sheet, line, header); err != nil {
			return err
		}
		line++
	}

	for _, row := range t.Rows() {
		cells := make([]any, len(cols))
		for i, col := range cols {
			cells[i] = xlsxValue(row[col])
		}
		if err := setRow(f, sheet, line, cells); err != nil {
			return err
		}
		line++
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, line int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func xlsxValue(v any) any {
	switch n := table.Normalize(v).(type) {
	case nil:
		return ""
	case string, int64, float64, bool:
		return n
	default:
		return table.FormatValue(v)
	}
}
