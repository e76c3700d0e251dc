// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/vartable/internal/cmd/table"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates the formatter for format. Unknown formats get a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(unwrap(data))
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(unwrap(data),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// unwrap returns the structured value behind table data, so json and yaml
// output carry records instead of rendered cells.
func unwrap(data any) any {
	if d, ok := data.(table.Data); ok && d.Source != nil {
		return d.Source
	}
	return data
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return f.formatTable(w, v)
	default:
		if tableData := f.convertToTableData(data); tableData != nil {
			return f.formatTable(w, *tableData)
		}

		// Fall back to JSON for non-table data
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data table.Data) error {
	headers, rows, align := data.Headers, data.Rows, data.ColumnAlignment
	if !f.Wide && data.Narrow > 0 && data.Narrow < len(headers) {
		headers = headers[:data.Narrow]
		narrowed := make([][]string, len(rows))
		for i, row := range rows {
			narrowed[i] = row[:min(len(row), data.Narrow)]
		}
		rows = narrowed
		if len(align) > data.Narrow {
			align = align[:data.Narrow]
		}
	}

	config := tablewriter.Config{}
	if len(align) > 0 {
		twAlign := make([]tw.Align, len(align))
		for i, a := range align {
			switch a {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(headers) > 0 {
		h := make([]any, len(headers))
		for i, name := range headers {
			h[i] = name
		}
		tbl.Header(h...)
	}
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := tbl.Append(cells...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide", s)
	}
}

// convertToTableData attempts to convert struct slices to table data using reflection.
func (f *TableFormatter) convertToTableData(data any) *table.Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice && v.Len() > 0 {
		first := v.Index(0)
		if first.Kind() == reflect.Pointer && !first.IsNil() {
			first = first.Elem()
		}
		if first.Kind() == reflect.Struct {
			return f.structSliceToTableData(v)
		}
	}
	if v.Kind() == reflect.Struct {
		return f.singleStructToTableData(v)
	}
	return nil
}

// structSliceToTableData converts a slice of structs to table data.
func (f *TableFormatter) structSliceToTableData(v reflect.Value) *table.Data {
	elemType := reflect.Indirect(v.Index(0)).Type()

	var headers []string
	for i := 0; i < elemType.NumField(); i++ {
		if elemType.Field(i).IsExported() {
			headers = append(headers, fieldTitle(elemType.Field(i)))
		}
	}

	var rows [][]string
	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		var row []string
		for j := 0; j < elem.NumField(); j++ {
			if elemType.Field(j).IsExported() {
				row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
			}
		}
		rows = append(rows, row)
	}
	return &table.Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func (f *TableFormatter) singleStructToTableData(v reflect.Value) *table.Data {
	elemType := v.Type()
	var rows [][]string
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		if !field.IsExported() {
			continue
		}
		rows = append(rows, []string{fieldTitle(field), fmt.Sprintf("%v", v.Field(i).Interface())})
	}
	return &table.Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// fieldTitle uses the json tag if available, otherwise the field name.
func fieldTitle(field reflect.StructField) string {
	if jsonTag := field.Tag.Get("json"); jsonTag != "" && jsonTag != "-" {
		if idx := strings.Index(jsonTag, ","); idx > 0 {
			jsonTag = jsonTag[:idx]
		}
		caser := cases.Title(language.English)
		return caser.String(strings.ReplaceAll(jsonTag, "_", " "))
	}
	return field.Name
}
