// Package builtin provides the functions available to every configuration
// document: the standard pre-processor, nucleotide substitution annotations
// and a few validators. Importing the package registers them on
// functions.Default.
package builtin

import (
	"fmt"

	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/table"
)

// Names of the built-in functions.
const (
	Standard = "standard"
	Identity = "identity"

	Substitution  = "substitution"
	ADARFixable   = "adar_fixable"
	APOBECFixable = "apobec_fixable"
	Transition    = "transition"

	KeyCoverage         = "key_coverage"
	RequiredAnnotations = "required_annotations"
	Noop                = "noop"
)

func init() {
	Register(functions.Default())
}

// Register adds every built-in function to r.
func Register(r *functions.Registry) {
	r.RegisterPreProcessor(Standard, StandardPreProcessor)
	r.RegisterPreProcessor(Identity, func(records table.Batch, _ map[string]any) (table.Batch, error) {
		return records, nil
	})

	r.RegisterCompute(Substitution, NewSubstitution)
	r.RegisterCompute(ADARFixable, fixedSubstitution("G", "A"))
	r.RegisterCompute(APOBECFixable, fixedSubstitution("T", "C"))
	r.RegisterCompute(Transition, NewTransition)

	r.RegisterValidator(KeyCoverage, KeyCoverageValidator)
	r.RegisterValidator(RequiredAnnotations, RequiredAnnotationsValidator)
	r.RegisterValidator(Noop, func(functions.Dataset, *table.Table) (*table.Table, error) {
		return nil, nil
	})
}

// mapping reads a nested mapping from a decoded YAML value.
func mapping(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

// stringList reads a list of strings from a decoded YAML value.
func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{l}
	}
	return nil
}

func stringParam(params map[string]any, name, fallback string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		if fallback == "" {
			return "", fmt.Errorf("missing param %q", name)
		}
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %q must be a string, got %T", name, v)
	}
	return s, nil
}
