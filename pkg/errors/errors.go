// Package errors provides custom error types for the vartable system.
// These errors enable programmatic error checking with errors.Is and errors.As
// while keeping enough context (source name, path, format) for useful messages.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers importing this package as "errors"
// don't need a second import of the standard library package.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the vartable system
var (
	// ErrConfigNotFound indicates that no configuration exists for a source name
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrConfigMalformed indicates that a configuration could not be decoded or bound
	ErrConfigMalformed = errors.New("configuration malformed")

	// ErrWrongSourceType indicates an operation was given a source of the wrong type
	ErrWrongSourceType = errors.New("wrong source type")

	// ErrUnsupportedSourceType indicates a source type tag that is not recognized
	ErrUnsupportedSourceType = errors.New("unsupported source type")

	// ErrPreprocessorMissing indicates the resolved configuration has no pre-processor
	ErrPreprocessorMissing = errors.New("pre-processor missing")

	// ErrRawDataUnavailable indicates the raw data backing a source could not be loaded
	ErrRawDataUnavailable = errors.New("raw data unavailable")

	// ErrValidationFailed indicates a validator rejected the consolidated table
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnsupportedFormat indicates a table file format that is not recognized
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrKeyMissing indicates a record lacks one of the key columns
	ErrKeyMissing = errors.New("key column missing")

	// ErrDuplicateKey indicates an attempt to insert a row whose key already exists
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrRowNotFound indicates no row exists for a key
	ErrRowNotFound = errors.New("row not found")

	// ErrAnnotationIncomplete indicates a compute function left rows without a value
	ErrAnnotationIncomplete = errors.New("annotation incomplete")

	// ErrUnknownFunction indicates a configuration referenced an unregistered function
	ErrUnknownFunction = errors.New("unknown function")

	// ErrColumnConflict indicates a source name collides with a column it would overwrite
	ErrColumnConflict = errors.New("column conflict")
)

// ConfigNotFoundError represents a missing configuration for a source name and type
type ConfigNotFoundError struct {
	Name string
	Type string
}

// Error implements the error interface
func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("%s configuration %q not found", e.Type, e.Name)
}

// Is implements errors.Is support
func (e *ConfigNotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// NewConfigNotFoundError creates a new ConfigNotFoundError
func NewConfigNotFoundError(name, typ string) *ConfigNotFoundError {
	return &ConfigNotFoundError{Name: name, Type: typ}
}

// ConfigMalformedError represents a configuration that is not the expected shape
type ConfigMalformedError struct {
	Name    string
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigMalformedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration %q (%s) malformed: %s", e.Name, e.Path, e.Message)
	}
	return fmt.Sprintf("configuration %q malformed: %s", e.Name, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigMalformedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigMalformedError) Is(target error) bool {
	return target == ErrConfigMalformed
}

// NewConfigMalformedError creates a new ConfigMalformedError
func NewConfigMalformedError(name, path string, err error) *ConfigMalformedError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ConfigMalformedError{Name: name, Path: path, Message: message, Err: err}
}

// SourceTypeError represents a source whose type tag doesn't fit the operation
type SourceTypeError struct {
	Source    string
	Type      string
	Operation string
	sentinel  error
}

// Error implements the error interface
func (e *SourceTypeError) Error() string {
	if e.sentinel == ErrUnsupportedSourceType {
		return fmt.Sprintf("cannot %s source %q: unsupported source type %q", e.Operation, e.Source, e.Type)
	}
	return fmt.Sprintf("cannot %s source %q: wrong source type %q", e.Operation, e.Source, e.Type)
}

// Is implements errors.Is support
func (e *SourceTypeError) Is(target error) bool {
	return target == e.sentinel
}

// NewWrongSourceTypeError creates a SourceTypeError matching ErrWrongSourceType
func NewWrongSourceTypeError(operation, source, typ string) *SourceTypeError {
	return &SourceTypeError{Source: source, Type: typ, Operation: operation, sentinel: ErrWrongSourceType}
}

// NewUnsupportedSourceTypeError creates a SourceTypeError matching ErrUnsupportedSourceType
func NewUnsupportedSourceTypeError(operation, source, typ string) *SourceTypeError {
	return &SourceTypeError{Source: source, Type: typ, Operation: operation, sentinel: ErrUnsupportedSourceType}
}

// RawDataError represents raw source data that could not be loaded
type RawDataError struct {
	Source string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *RawDataError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("raw data for source %q unavailable at %s: %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("raw data for source %q unavailable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RawDataError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RawDataError) Is(target error) bool {
	return target == ErrRawDataUnavailable
}

// NewRawDataError creates a new RawDataError
func NewRawDataError(source, path string, err error) *RawDataError {
	return &RawDataError{Source: source, Path: path, Err: err}
}

// ValidationFailure is returned by validators that reject the consolidated table
type ValidationFailure struct {
	Validator string
	Source    string
	Message   string
	Rows      int // number of offending rows, 0 when not row related
}

// Error implements the error interface
func (e *ValidationFailure) Error() string {
	if e.Rows > 0 {
		return fmt.Sprintf("validation %s by %q failed on %d rows: %s", e.Validator, e.Source, e.Rows, e.Message)
	}
	return fmt.Sprintf("validation %s by %q failed: %s", e.Validator, e.Source, e.Message)
}

// Is implements errors.Is support
func (e *ValidationFailure) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationFailure creates a new ValidationFailure
func NewValidationFailure(validator, source, message string) *ValidationFailure {
	return &ValidationFailure{Validator: validator, Source: source, Message: message}
}

// UnsupportedFormatError represents a table file format that is not recognized
type UnsupportedFormatError struct {
	Format string
}

// Error implements the error interface
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: must be one of csv, tsv, xlsx", e.Format)
}

// Is implements errors.Is support
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// NewUnsupportedFormatError creates a new UnsupportedFormatError
func NewUnsupportedFormatError(format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Format: format}
}

// KeyError represents a key problem on a single row
type KeyError struct {
	Key      string
	Column   string
	sentinel error
}

// Error implements the error interface
func (e *KeyError) Error() string {
	if e.sentinel == ErrKeyMissing {
		return fmt.Sprintf("record has no value for key column %q", e.Column)
	}
	return fmt.Sprintf("duplicate key %s", e.Key)
}

// Is implements errors.Is support
func (e *KeyError) Is(target error) bool {
	return target == e.sentinel
}

// NewKeyMissingError creates a KeyError matching ErrKeyMissing
func NewKeyMissingError(column string) *KeyError {
	return &KeyError{Column: column, sentinel: ErrKeyMissing}
}

// NewDuplicateKeyError creates a KeyError matching ErrDuplicateKey
func NewDuplicateKeyError(key string) *KeyError {
	return &KeyError{Key: key, sentinel: ErrDuplicateKey}
}

// ColumnConflictError represents a source whose indicator column would
// overwrite a column already in use
type ColumnConflictError struct {
	Source string
	Kind   string // "key column", "annotation", "data column"
}

// Error implements the error interface
func (e *ColumnConflictError) Error() string {
	return fmt.Sprintf("indicator column of source %q would overwrite %s %q", e.Source, e.Kind, e.Source)
}

// Is implements errors.Is support
func (e *ColumnConflictError) Is(target error) bool {
	return target == ErrColumnConflict
}

// NewColumnConflictError creates a new ColumnConflictError
func NewColumnConflictError(source, kind string) *ColumnConflictError {
	return &ColumnConflictError{Source: source, Kind: kind}
}

// MergeError represents an error while merging a source into the table
type MergeError struct {
	Source string
	Step   string
	Err    error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("merge of source %q failed during %s: %v", e.Source, e.Step, e.Err)
	}
	return fmt.Sprintf("merge of source %q failed: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(source, step string, err error) *MergeError {
	return &MergeError{Source: source, Step: step, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsConfigNotFound checks if an error is a missing configuration error
func IsConfigNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}

// IsConfigMalformed checks if an error is a malformed configuration error
func IsConfigMalformed(err error) bool {
	return errors.Is(err, ErrConfigMalformed)
}

// IsRecoverableConfig reports whether a configuration error may fall back to the default
func IsRecoverableConfig(err error) bool {
	return IsConfigNotFound(err) || IsConfigMalformed(err)
}

// IsValidationFailure checks if an error was raised by a validator
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapMerge wraps an error as a MergeError
func WrapMerge(source, step string, err error) error {
	if err == nil {
		return nil
	}
	return NewMergeError(source, step, err)
}
