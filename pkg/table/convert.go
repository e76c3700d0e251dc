package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column value types understood by Convert.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
)

// Convert coerces v to the named column type. Empty strings and nil become nil.
func Convert(v any, typ string) (any, error) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" && typ != TypeString {
		return nil, nil
	}

	switch typ {
	case TypeString, "str":
		return toString(v), nil
	case TypeInt, "int64", "integer":
		return toInt(v)
	case TypeFloat, "float64", "number":
		return toFloat(v)
	case TypeBool, "boolean":
		return toBool(v)
	default:
		return nil, fmt.Errorf("unknown column type %q", typ)
	}
}

// Normalize maps Go numeric kinds onto the table's value set
// (string, int64, float64, bool, nil).
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return float64(n)
	case uint:
		return int64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// FormatValue renders a cell for flat export: nil is empty, bools are true/false.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	return toString(v)
}

func toString(v any) string {
	switch s := Normalize(v).(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) (any, error) {
	switch n := Normalize(v).(type) {
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("cannot convert %v to int: not integral", n)
		}
		return int64(n), nil
	case bool:
		if n {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("cannot convert %q to int", n)
		}
		return int64(f), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", v)
	}
}

func toFloat(v any) (any, error) {
	switch n := Normalize(v).(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to float", n)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to float", v)
	}
}

func toBool(v any) (any, error) {
	switch n := Normalize(v).(type) {
	case bool:
		return n, nil
	case int64:
		return n != 0, nil
	case float64:
		return n != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "true", "t", "yes", "y", "1":
			return true, nil
		case "false", "f", "no", "n", "0":
			return false, nil
		}
		return nil, fmt.Errorf("cannot convert %q to bool", n)
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", v)
	}
}
