package builtin

import (
	"fmt"
	"strings"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/table"
)

const (
	defaultRefCol = "ref"
	defaultAltCol = "alt"
)

// NewSubstitution builds a compute function that is true on rows where
// from_col equals from and to_col equals to, case-insensitively.
// from_col and to_col default to ref and alt.
func NewSubstitution(params map[string]any) (annotations.ComputeFunc, error) {
	fromCol, err := stringParam(params, "from_col", defaultRefCol)
	if err != nil {
		return nil, err
	}
	toCol, err := stringParam(params, "to_col", defaultAltCol)
	if err != nil {
		return nil, err
	}
	from, err := stringParam(params, "from", "")
	if err != nil {
		return nil, err
	}
	to, err := stringParam(params, "to", "")
	if err != nil {
		return nil, err
	}
	return substitution(fromCol, toCol, from, to), nil
}

func fixedSubstitution(from, to string) functions.ComputeBuilder {
	return func(params map[string]any) (annotations.ComputeFunc, error) {
		fromCol, err := stringParam(params, "from_col", defaultRefCol)
		if err != nil {
			return nil, err
		}
		toCol, err := stringParam(params, "to_col", defaultAltCol)
		if err != nil {
			return nil, err
		}
		return substitution(fromCol, toCol, from, to), nil
	}
}

func substitution(fromCol, toCol, from, to string) annotations.ComputeFunc {
	return func(name string, batch table.Batch) error {
		return eachBase(name, batch, fromCol, toCol, func(ref, alt string) any {
			return strings.EqualFold(ref, from) && strings.EqualFold(alt, to)
		})
	}
}

// NewTransition builds a compute function that is true for single-base
// purine to purine (A/G) or pyrimidine to pyrimidine (C/T) changes.
func NewTransition(params map[string]any) (annotations.ComputeFunc, error) {
	fromCol, err := stringParam(params, "from_col", defaultRefCol)
	if err != nil {
		return nil, err
	}
	toCol, err := stringParam(params, "to_col", defaultAltCol)
	if err != nil {
		return nil, err
	}
	return func(name string, batch table.Batch) error {
		return eachBase(name, batch, fromCol, toCol, func(ref, alt string) any {
			ref, alt = strings.ToUpper(ref), strings.ToUpper(alt)
			if len(ref) != 1 || len(alt) != 1 || ref == alt {
				return false
			}
			return baseClass(ref) != 0 && baseClass(ref) == baseClass(alt)
		})
	}, nil
}

func baseClass(b string) int {
	switch b {
	case "A", "G":
		return 1
	case "C", "T":
		return 2
	}
	return 0
}

// eachBase evaluates fn per row on the string values of fromCol and toCol.
// nil cells evaluate to false; a missing column is an error.
func eachBase(name string, batch table.Batch, fromCol, toCol string, fn func(ref, alt string) any) error {
	for i, row := range batch {
		ref, ok := row[fromCol]
		if !ok {
			return fmt.Errorf("row %d has no column %q", i, fromCol)
		}
		alt, ok := row[toCol]
		if !ok {
			return fmt.Errorf("row %d has no column %q", i, toCol)
		}
		if ref == nil || alt == nil {
			row[name] = false
			continue
		}
		row[name] = fn(table.FormatValue(ref), table.FormatValue(alt))
	}
	return nil
}
