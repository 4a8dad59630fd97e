package agent

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// coerceArguments maps loosely typed model output onto the descriptor's
// declared types. Values that cannot be coerced are passed through
// unchanged so validation can report them.
func coerceArguments(descriptor ToolDescriptor, args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for key, value := range args {
		param, ok := descriptor.parameter(key)
		if !ok {
			out[key] = value
			continue
		}
		if coerced, err := coerceValue(param, value); err == nil {
			out[key] = coerced
		} else {
			out[key] = value
		}
	}
	return out
}

// normalizeArguments coerces and strictly validates args: every required
// parameter present, no undeclared keys, every value of its declared type.
func normalizeArguments(descriptor ToolDescriptor, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}

	extra := lo.Filter(lo.Keys(args), func(key string, _ int) bool {
		_, ok := descriptor.parameter(key)
		return !ok
	})
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("unexpected argument(s): %s", strings.Join(extra, ", "))
	}

	out := make(map[string]any, len(descriptor.Parameters))
	for _, param := range descriptor.Parameters {
		value, present := args[param.Name]
		if !present || value == nil {
			if param.Required {
				return nil, fmt.Errorf("missing required argument %q", param.Name)
			}
			continue
		}

		coerced, err := coerceValue(param, value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %v", param.Name, err)
		}
		out[param.Name] = coerced
	}
	return out, nil
}

func coerceValue(param Parameter, value any) (any, error) {
	switch param.Type {
	case ParamString:
		return toString(value)
	case ParamNumber:
		return toNumber(value)
	case ParamInteger:
		return toInteger(value)
	case ParamBoolean:
		return toBoolean(value)
	case ParamArray:
		return toArray(param.ItemType, value)
	default:
		return value, nil
	}
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, float32, int, int64, json.Number, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("must be a string, got %T", value)
	}
}

func toNumber(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("must be numeric, got %q", v.String())
		}
		f = parsed
	case string:
		parsed, err := parseNumber(v)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("must be numeric, got %T", value)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return f, nil
}

// groupedNumber matches numbers with comma thousands separators, e.g. 12,500.75.
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseNumber accepts commas only as thousands separators. Any other comma,
// such as a decimal comma in "1,5", is rejected.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return 0, fmt.Errorf("must be numeric, got %q (commas are only allowed as thousands separators)", raw)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("must be numeric, got %q", raw)
	}
	return parsed, nil
}

func toInteger(value any) (int64, error) {
	f, err := toNumber(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("must be a whole number, got %v", f)
	}
	return int64(f), nil
}

func toBoolean(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("must be true or false, got %q", v)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("must be a boolean, got %T", value)
	}
}

// toArray accepts a JSON list, a string of items separated by ", ", ";",
// newlines or spaces, or a single scalar.
func toArray(itemType ParamType, value any) ([]any, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []float64:
		items = lo.Map(v, func(f float64, _ int) any { return f })
	case []string:
		items = lo.Map(v, func(s string, _ int) any { return s })
	case string:
		fields, err := splitList(v)
		if err != nil {
			return nil, err
		}
		items = lo.Map(fields, func(s string, _ int) any { return s })
	default:
		items = []any{value}
	}

	if itemType == "" {
		return items, nil
	}

	item := Parameter{Type: itemType}
	out := make([]any, 0, len(items))
	for i, raw := range items {
		coerced, err := coerceValue(item, raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %v", i, err)
		}
		out = append(out, coerced)
	}
	return out, nil
}

// splitList splits on ";" and whitespace, so "1,000, 2,500" yields two items.
// A bare comma list such as "10,20" is rejected because it cannot be told
// apart from a thousands-grouped number.
func splitList(raw string) ([]string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || unicode.IsSpace(r) })
	fields = lo.FilterMap(fields, func(field string, _ int) (string, bool) {
		field = strings.TrimRight(field, ",")
		return field, field != ""
	})
	if len(fields) == 1 && strings.Contains(fields[0], ",") {
		return nil, fmt.Errorf("ambiguous list %q: use a JSON array or separate items with \", \"", raw)
	}
	return fields, nil
}
