package template

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strings"
)

// EscapeTool escapes text for the format a template emits, e.g.
// "name": "$esc.json($requestBody)".
type EscapeTool struct{}

// Invoke implements Tool.
func (EscapeTool) Invoke(method string, args ...any) (any, error) {
	switch method {
	case "json", "javascript", "html", "xml", "url":
	default:
		return nil, fmt.Errorf("%w: esc.%s", ErrNoSuchMethod, method)
	}
	if err := arity("esc."+method, args, 1); err != nil {
		return nil, err
	}
	if args[0] == nil {
		return nil, nil
	}
	s := Stringify(args[0])
	switch method {
	case "html":
		return html.EscapeString(s), nil
	case "xml":
		var b strings.Builder
		if err := xml.EscapeText(&b, []byte(s)); err != nil {
			return nil, err
		}
		return b.String(), nil
	case "url":
		return url.QueryEscape(s), nil
	default:
		return jsonEscape(s)
	}
}

func (EscapeTool) String() string { return "esc" }

// jsonEscape returns s as the inside of a JSON string literal.
func jsonEscape(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return out[1 : len(out)-1], nil
}
