// Package tablefile reads and writes flat table files (CSV, TSV and XLSX).
// It is used to load raw source data, to upload a previously exported
// consolidated table and to export the final table.
package tablefile

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/vartable/pkg/errors"
)

// Format is a flat table file format.
type Format int

// Format constants.
const (
	FormatCSV Format = iota
	FormatTSV
	FormatXLSX
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatTSV, FormatXLSX:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	}
	return "unknown"
}

// Extension returns the file extension for the format, with the leading dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// Delimiter returns the field separator of delimited formats.
func (f Format) Delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// ParseFormat parses a format name or extension: csv, tsv or xlsx,
// case-insensitive, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return 0, errors.NewUnsupportedFormatError(s)
}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, errors.NewUnsupportedFormatError(filepath.Base(path))
	}
	return ParseFormat(ext)
}

// Supported returns the names of the supported formats.
func Supported() []string {
	return []string{FormatCSV.String(), FormatTSV.String(), FormatXLSX.String()}
}
