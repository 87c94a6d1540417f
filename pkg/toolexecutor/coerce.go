package toolexecutor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrArgumentCoercion is matched by every *CoercionError.
var ErrArgumentCoercion = errors.New("argument coercion failed")

// CoercionError reports a parameter value that could not be converted to
// its declared type.
type CoercionError struct {
	Param string
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("invalid value for parameter %s: %s: %v", e.Param, FormatValue(e.Value), e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

func (e *CoercionError) Is(target error) bool { return target == ErrArgumentCoercion }

// Arguments maps parameter names to coerced values in declaration order.
type Arguments struct {
	values *orderedmap.OrderedMap[string, any]
}

// NewArguments returns an empty argument set.
func NewArguments() *Arguments {
	return &Arguments{values: orderedmap.New[string, any]()}
}

func (a *Arguments) Set(name string, value any) { a.values.Set(name, value) }

func (a *Arguments) Get(name string) (any, bool) { return a.values.Get(name) }

func (a *Arguments) Len() int { return a.values.Len() }

// Keys returns parameter names in insertion order.
func (a *Arguments) Keys() []string {
	keys := make([]string, 0, a.values.Len())
	for pair := a.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON encodes the arguments as a JSON object in insertion order.
func (a *Arguments) MarshalJSON() ([]byte, error) {
	return a.values.MarshalJSON()
}

// String renders the arguments as {a: 2, b: [1, 2]}.
func (a *Arguments) String() string {
	if a == nil {
		return "{}"
	}
	parts := make([]string, 0, a.values.Len())
	for pair := a.values.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, pair.Key+": "+FormatValue(pair.Value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Coerce zips raw positional values with params. Extra values are dropped
// and trailing parameters without a value stay unset.
func Coerce(params []Parameter, raw []any) (*Arguments, error) {
	args := NewArguments()
	for i, value := range raw {
		if i >= len(params) {
			break
		}
		p := params[i]
		coerced, err := CoerceValue(p, value)
		if err != nil {
			return nil, &CoercionError{Param: p.Name, Value: value, Err: err}
		}
		args.Set(p.Name, coerced)
	}
	return args, nil
}

// CoerceValue converts one value to the parameter's declared type.
func CoerceValue(p Parameter, value any) (any, error) {
	switch p.Type {
	case "integer":
		return toInteger(value)
	case "number":
		return toNumber(value)
	case "boolean":
		return toBoolean(value), nil
	case "array":
		return toArray(value, p.ItemsType)
	default:
		return stringify(value), nil
	}
}

func toInteger(value any) (int64, error) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return truncate(f)
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case float64:
		return truncate(v)
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func truncate(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is out of integer range", f)
	}
	return int64(f), nil
}

func toNumber(value any) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", value)
	}
}

func toBoolean(value any) bool {
	if s, ok := value.(string); ok {
		return strings.EqualFold(s, "true")
	}
	return truthy(value)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func toArray(value any, itemsType string) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		clean := strings.Trim(v, "[]")
		if clean == "" {
			return []any{}, nil
		}
		parts := strings.Split(clean, ",")
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			switch itemsType {
			case "integer":
				n, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return nil, err
				}
				items = append(items, n)
			case "number":
				f, err := strconv.ParseFloat(part, 64)
				if err != nil {
					return nil, err
				}
				items = append(items, f)
			default:
				items = append(items, part)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to array", value)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// FormatValue renders a value the way it appears in transcript lines.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, FormatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
