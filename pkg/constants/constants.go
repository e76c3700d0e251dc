// Package constants provides shared constants used throughout the vartable codebase.
// This includes collection layout names, file permissions, and default values
// that should be consistent across the application.
package constants

import "time"

// Collection layout constants describe the sources directory contract
const (
	// DefaultConfigName is the name of the configuration every source inherits from
	DefaultConfigName = "default"

	// ConfigFileName is the configuration file expected inside each source directory
	ConfigFileName = "config.yaml"

	// ConfigFileNameAlt is accepted when ConfigFileName is absent
	ConfigFileNameAlt = "config.yml"

	// VariantsDir is the directory holding variant source entries
	VariantsDir = "variants"

	// VariantsDirAlt is accepted when VariantsDir is absent
	VariantsDirAlt = "variant"

	// ValidationDir is the optional directory holding validation source entries
	ValidationDir = "validation"

	// DefaultDataPrefix is the file name prefix of a source's raw data file
	DefaultDataPrefix = "variants_table"
)

// Table constants
const (
	// IndicatorOn marks a row as contributed by a source
	IndicatorOn int64 = 1

	// IndicatorOff is the default value of indicator and back-filled columns
	IndicatorOff int64 = 0
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// DefaultSourcesPath is the sources directory used when none is configured
	DefaultSourcesPath = "./DBs"

	// DefaultOutputPath is the export path used when none is given
	DefaultOutputPath = "extended_table.csv"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"

	// XLSXSheetName is the sheet written by the XLSX exporter
	XLSXSheetName = "Sheet1"
)

// CommandTimeout bounds how long the CLI waits for graceful shutdown
const CommandTimeout = 5 * time.Second
