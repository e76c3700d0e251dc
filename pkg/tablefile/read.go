package tablefile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
)

// Data is the decoded content of a table file. Every cell is a string.
type Data struct {
	Header  []string
	Records []table.Row
}

// Columns returns the header in file order.
func (d *Data) Columns() []string {
	return slices.Clone(d.Header)
}

// Rows returns the decoded records.
func (d *Data) Rows() []table.Row {
	return d.Records
}

// Read decodes the table file at path, choosing the format from the extension
// unless WithFormat is given.
func Read(path string, opts ...Option) (*Data, error) {
	o := Defaults().Apply(opts...)
	format, ok := o.Format()
	if !ok {
		var err error
		if format, err = FormatOf(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := Decode(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Load reads the table file at path into a Table keyed by keyCols.
func Load(path string, keyCols []string, opts ...Option) (*table.Table, error) {
	data, err := Read(path, opts...)
	if err != nil {
		return nil, err
	}
	return table.FromRows(keyCols, data.Header, data.Records)
}

// Decode reads a table in the given format from r. The first row is the header.
func Decode(r io.Reader, format Format, opts ...Option) (*Data, error) {
	o := Defaults().Apply(opts...)
	var (
		raw [][]string
		err error
	)
	switch format {
	case FormatCSV, FormatTSV:
		raw, err = decodeDelimited(r, format.Delimiter())
	case FormatXLSX:
		raw, err = decodeXLSX(r, o.Sheet())
	default:
		return nil, errors.NewUnsupportedFormatError(format.String())
	}
	if err != nil {
		return nil, err
	}
	return toData(raw)
}

func decodeDelimited(r io.Reader, delim rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	return cr.ReadAll()
}

func decodeXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	if !slices.Contains(sheets, sheet) {
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

func toData(raw [][]string) (*Data, error) {
	data := &Data{}
	if len(raw) == 0 {
		return data, nil
	}

	seen := make(map[string]struct{}, len(raw[0]))
	for _, name := range raw[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in header", name)
		}
		seen[name] = struct{}{}
		data.Header = append(data.Header, name)
	}

	for _, rec := range raw[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(table.Row, len(data.Header))
		for i, col := range data.Header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		data.Records = append(data.Records, row)
	}
	return data, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
