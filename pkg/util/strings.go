package util

import (
	"strings"
	"unicode/utf8"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to at most maxSize bytes, appending
// "...(truncated)" if truncated. The cut never splits a UTF-8 sequence.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut] + "...(truncated)"
}

// SplitAny splits s around every occurrence of any byte in seps.
// Leading and interior empty fields are kept and trailing empty fields are
// dropped, so "/" yields no fields at all. A string containing no separator
// yields itself as the only field.
func SplitAny(s, seps string) []string {
	if !strings.ContainsAny(s, seps) {
		return []string{s}
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(seps, s[i]) >= 0 {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// SplitList splits a comma-separated list, trimming spaces and skipping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
