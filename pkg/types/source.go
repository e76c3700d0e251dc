//nolint:revive // Package types provides common type definitions
package types

import (
	"slices"
	"strings"
)

// SourceType tags a data source with the family it belongs to.
// Variant sources are merged into the consolidated table; validation sources
// check the consolidated table once merging is done.
type SourceType string

// Known source types.
const (
	// SourceTypeVariant identifies a source whose records are merged into the table.
	SourceTypeVariant SourceType = "variant"

	// SourceTypeValidation identifies a source whose validator runs against the table.
	SourceTypeValidation SourceType = "validation"
)

// String returns the string representation of a source type.
func (st SourceType) String() string {
	return string(st)
}

// SourceTypes returns all known source types in processing order.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceTypeVariant,
		SourceTypeValidation,
	}
}

// IsValid returns true if the SourceType is one of the defined constants.
func (st SourceType) IsValid() bool {
	return slices.Contains(SourceTypes(), st)
}

// HasAnnotations reports whether sources of this type carry an annotation set.
func (st SourceType) HasAnnotations() bool {
	return st == SourceTypeVariant
}

// HasValidator reports whether sources of this type carry a validator.
func (st SourceType) HasValidator() bool {
	return st == SourceTypeValidation
}

// ParseSourceType converts a user supplied tag to a SourceType.
// The plural directory names ("variants") are accepted as aliases.
func ParseSourceType(s string) (SourceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "variant", "variants":
		return SourceTypeVariant, true
	case "validation", "validations":
		return SourceTypeValidation, true
	default:
		return SourceType(s), false
	}
}
