package stub

import "fmt"

// Parameters are the named transformer settings attached to a stub.
// A nil Parameters means none were configured.
type Parameters map[string]any

// ContainsKey reports whether key is set.
func (p Parameters) ContainsKey(key string) bool {
	_, ok := p[key]
	return ok
}

// GetString returns the value for key rendered as a string.
// Non-string values are formatted with fmt; ok is false when the key is unset.
func (p Parameters) GetString(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}
