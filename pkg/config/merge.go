package config

import "github.com/goccy/go-yaml"

// Merge deep-merges src over base and returns a fresh document body;
// neither argument is modified.
//
//   - keys only in base are kept, keys only in src are appended in src order;
//   - when both values are mappings they merge recursively;
//   - any other src value replaces the base value;
//   - each entry under annotations is replaced wholesale by src's entry;
//   - pre_processor and validator take src's value unless it is null.
func Merge(base, src yaml.MapSlice) yaml.MapSlice {
	out := cloneMap(base)
	if out == nil {
		out = yaml.MapSlice{}
	}
	for _, item := range src {
		key := keyString(item.Key)
		i := indexOf(out, key)
		if i < 0 {
			out = append(out, yaml.MapItem{Key: key, Value: cloneValue(item.Value)})
			continue
		}
		switch key {
		case KeyPreProcessor, KeyValidator:
			if item.Value != nil {
				out[i].Value = cloneValue(item.Value)
			}
		case KeyAnnotations:
			out[i].Value = mergeAnnotations(out[i].Value, item.Value)
		default:
			out[i].Value = mergeValue(out[i].Value, item.Value)
		}
	}
	return out
}

func mergeValue(base, src any) any {
	bm, bok := base.(yaml.MapSlice)
	sm, sok := src.(yaml.MapSlice)
	if !bok || !sok {
		return cloneValue(src)
	}
	out := cloneMap(bm)
	for _, item := range sm {
		key := keyString(item.Key)
		if i := indexOf(out, key); i >= 0 {
			out[i].Value = mergeValue(out[i].Value, item.Value)
		} else {
			out = append(out, yaml.MapItem{Key: key, Value: cloneValue(item.Value)})
		}
	}
	return out
}

func mergeAnnotations(base, src any) any {
	bm, bok := base.(yaml.MapSlice)
	sm, sok := src.(yaml.MapSlice)
	if !bok || !sok {
		return cloneValue(src)
	}
	out := cloneMap(bm)
	for _, item := range sm {
		key := keyString(item.Key)
		if i := indexOf(out, key); i >= 0 {
			out[i].Value = cloneValue(item.Value)
		} else {
			out = append(out, yaml.MapItem{Key: key, Value: cloneValue(item.Value)})
		}
	}
	return out
}

func indexOf(m yaml.MapSlice, key string) int {
	for i, item := range m {
		if keyString(item.Key) == key {
			return i
		}
	}
	return -1
}
