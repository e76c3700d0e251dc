package config

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/types"
)

// bind turns a merged document body into a Configuration, looking up every
// function name in fns. Annotations are bound for variant sources only and
// validators for validation sources only.
func bind(name string, typ types.SourceType, body yaml.MapSlice, fns *functions.Registry) (*Configuration, error) {
	cfg := &Configuration{
		Name:        name,
		Type:        typ,
		Annotations: annotations.NewSet(),
		Options:     map[string]any{},
		Document:    body,
	}

	fail := func(err error) (*Configuration, error) {
		return nil, errors.NewConfigMalformedError(name, "", err)
	}

	for _, item := range body {
		key := keyString(item.Key)
		switch key {
		case KeyKeyCols:
			cols, err := stringsOf(item.Value)
			if err != nil {
				return fail(fmt.Errorf("%s: %w", key, err))
			}
			cfg.KeyCols = cols
		case KeyDescription:
			if item.Value != nil {
				cfg.Description = fmt.Sprint(item.Value)
			}
		case KeyPreProcessor:
			fnName, err := optionalString(item.Value)
			if err != nil {
				return fail(fmt.Errorf("%s: %w", key, err))
			}
			if fnName == "" {
				continue
			}
			pre, err := fns.PreProcessor(fnName)
			if err != nil {
				return fail(err)
			}
			cfg.PreProcessorName, cfg.PreProcessor = fnName, pre
		case KeyValidator:
			if !typ.HasValidator() {
				continue
			}
			fnName, err := optionalString(item.Value)
			if err != nil {
				return fail(fmt.Errorf("%s: %w", key, err))
			}
			if fnName == "" {
				continue
			}
			v, err := fns.Validator(fnName)
			if err != nil {
				return fail(err)
			}
			cfg.ValidatorName, cfg.Validator = fnName, v
		case KeyOptions:
			opts, err := plainMap(item.Value)
			if err != nil {
				return fail(fmt.Errorf("%s: %w", key, err))
			}
			cfg.Options = opts
		case KeyData:
			data, err := bindData(item.Value)
			if err != nil {
				return fail(fmt.Errorf("%s: %w", key, err))
			}
			cfg.Data = data
		case KeyAnnotations:
			if !typ.HasAnnotations() {
				continue
			}
			set, err := bindAnnotations(item.Value, fns)
			if err != nil {
				return fail(err)
			}
			cfg.Annotations = set
		}
	}
	return cfg, nil
}

func bindAnnotations(v any, fns *functions.Registry) (*annotations.Set, error) {
	set := annotations.NewSet()
	if v == nil {
		return set, nil
	}
	m, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%s must be a mapping, got %T", KeyAnnotations, v)
	}
	for _, item := range m {
		name := keyString(item.Key)
		spec, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("annotation %q must be a mapping, got %T", name, item.Value)
		}
		a := &annotations.Annotation{Name: name}
		for _, field := range spec {
			var err error
			switch keyString(field.Key) {
			case "type":
				a.Type, err = optionalString(field.Value)
			case "description":
				a.Description, err = optionalString(field.Value)
			case "required":
				b, isBool := field.Value.(bool)
				if !isBool && field.Value != nil {
					err = fmt.Errorf("required must be a bool, got %T", field.Value)
				}
				a.Required = b
			case "compute", "compute_function":
				a.Function, err = optionalString(field.Value)
			case "params":
				a.Params, err = plainMap(field.Value)
			}
			if err != nil {
				return nil, fmt.Errorf("annotation %q: %w", name, err)
			}
		}
		if a.Function == "" {
			return nil, fmt.Errorf("annotation %q has no compute function", name)
		}
		compute, err := fns.Compute(a.Function, a.Params)
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", name, err)
		}
		a.Compute = compute
		set.Add(a)
	}
	return set, nil
}

func bindData(v any) (Data, error) {
	var d Data
	if v == nil {
		return d, nil
	}
	m, ok := v.(yaml.MapSlice)
	if !ok {
		return d, fmt.Errorf("must be a mapping, got %T", v)
	}
	var err error
	if p, ok := lookup(m, "prefix"); ok {
		if d.Prefix, err = optionalString(p); err != nil {
			return d, err
		}
	}
	if f, ok := lookup(m, "format"); ok {
		if d.Format, err = optionalString(f); err != nil {
			return d, err
		}
	}
	return d, nil
}

func optionalString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
}

func stringsOf(v any) ([]string, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{l}, nil
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, found %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}

// plainMap converts an ordered mapping to nested map[string]any for
// functions, normalising numbers to the table's value types.
func plainMap(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
	return plain(m).(map[string]any), nil
}

func plain(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(val))
		for _, item := range val {
			out[keyString(item.Key)] = plain(item.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return table.Normalize(v)
	}
}
