// Package flags provides reusable flag types for CLI commands.
package flags

import (
	"fmt"
	"strings"
)

// KeyValues implements pflag.Value for repeatable key=value flags such as
// --param query=a,b. Later occurrences of a key replace earlier ones.
type KeyValues struct {
	keys   []string
	values map[string]string
}

// String returns the flag value as comma-joined key=value pairs.
func (kv *KeyValues) String() string {
	parts := make([]string, 0, len(kv.keys))
	for _, k := range kv.keys {
		parts = append(parts, k+"="+kv.values[k])
	}
	return strings.Join(parts, ",")
}

// Set parses and stores one key=value pair.
func (kv *KeyValues) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	if kv.values == nil {
		kv.values = make(map[string]string)
	}
	if _, seen := kv.values[k]; !seen {
		kv.keys = append(kv.keys, k)
	}
	kv.values[k] = v
	return nil
}

// Type specifies the type label for Cobra flags.
func (kv *KeyValues) Type() string {
	return "key=value"
}

// Each calls fn for every pair in the order keys were first given.
func (kv *KeyValues) Each(fn func(key, value string)) {
	for _, k := range kv.keys {
		fn(k, kv.values[k])
	}
}

// Len returns the number of distinct keys.
func (kv *KeyValues) Len() int {
	return len(kv.keys)
}
