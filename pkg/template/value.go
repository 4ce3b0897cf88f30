package template

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Tool is a context value exposing operations that templates can call,
// such as $dateRange.of(start, end). Invoke returns an error wrapping
// ErrNoSuchMethod for methods it does not provide.
type Tool interface {
	Invoke(method string, args ...any) (any, error)
}

// FormatList renders a list as "[a, b, c]".
func FormatList(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}

// Stringify renders a value the way it appears in template output.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return FormatList(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Stringify(item)
		}
		return FormatList(parts)
	case map[string]any:
		keys := sortedKeys(x)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + Stringify(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		// Whole doubles keep their ".0", as Java prints them.
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// truthy follows Velocity: only null and false are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// collect returns the elements of an iterable value.
func collect(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		return toAny(x), true
	case DateSeq:
		out := make([]any, 0, x.Len())
		for s := range x.All() {
			out = append(out, s)
		}
		return out, true
	case map[string]any:
		keys := sortedKeys(x)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = x[k]
		}
		return out, true
	}
	return nil, false
}

func toAny(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// property resolves $v.name. Only maps have properties.
func property(v any, name string) (any, bool) {
	switch x := v.(type) {
	case map[string]any:
		val, ok := x[name]
		return val, ok
	case map[string]string:
		val, ok := x[name]
		return val, ok
	}
	return nil, false
}

// index resolves $v[idx].
func index(v any, idx any) (any, error) {
	if m, ok := v.(map[string]any); ok {
		key, ok := idx.(string)
		if !ok {
			return nil, fmt.Errorf("map index must be a string, got %T", idx)
		}
		return m[key], nil
	}
	items, ok := collect(v)
	if !ok {
		return nil, fmt.Errorf("cannot index %T", v)
	}
	i, err := toInt(idx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("index %d out of range for list of length %d", i, len(items))
	}
	return items[i], nil
}

// invoke calls $v.method(args).
func invoke(v any, method string, args []any) (any, error) {
	switch x := v.(type) {
	case Tool:
		return x.Invoke(method, args...)
	case string:
		return stringMethod(x, method, args)
	case map[string]any:
		return mapMethod(x, method, args)
	}
	if items, ok := collect(v); ok {
		return listMethod(items, method, args)
	}
	return nil, fmt.Errorf("%w: %s on %T", ErrNoSuchMethod, method, v)
}

func stringMethod(s, method string, args []any) (any, error) {
	switch method {
	case "length", "toUpperCase", "toLowerCase", "trim", "isEmpty":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		switch method {
		case "length":
			return len([]rune(s)), nil
		case "toUpperCase":
			return strings.ToUpper(s), nil
		case "toLowerCase":
			return strings.ToLower(s), nil
		case "trim":
			return strings.TrimSpace(s), nil
		default:
			return s == "", nil
		}
	case "contains", "startsWith", "endsWith", "equals":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		arg := Stringify(args[0])
		switch method {
		case "contains":
			return strings.Contains(s, arg), nil
		case "startsWith":
			return strings.HasPrefix(s, arg), nil
		case "endsWith":
			return strings.HasSuffix(s, arg), nil
		default:
			return s == arg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on string", ErrNoSuchMethod, method)
}

func listMethod(items []any, method string, args []any) (any, error) {
	switch method {
	case "size", "isEmpty":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		if method == "size" {
			return len(items), nil
		}
		return len(items) == 0, nil
	case "get":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		return index(items, args[0])
	case "contains":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		want := Stringify(args[0])
		return slices.ContainsFunc(items, func(item any) bool { return Stringify(item) == want }), nil
	}
	return nil, fmt.Errorf("%w: %s on list", ErrNoSuchMethod, method)
}

func mapMethod(m map[string]any, method string, args []any) (any, error) {
	switch method {
	case "size", "isEmpty":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		if method == "size" {
			return len(m), nil
		}
		return len(m) == 0, nil
	case "get", "containsKey":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		val, ok := m[Stringify(args[0])]
		if method == "get" {
			return val, nil
		}
		return ok, nil
	}
	return nil, fmt.Errorf("%w: %s on map", ErrNoSuchMethod, method)
}

func arity(method string, args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", method, n, len(args))
	}
	return nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("not an integer: %T", v)
}
