package stub

import (
	"net/url"
	"strings"
)

// Header is a single request header with all of its values.
type Header struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Headers is an ordered list of request headers.
// Order is preserved exactly as the host supplied it.
type Headers []Header

// Get returns the values of the first header whose name matches
// case-insensitively, or nil.
func (h Headers) Get(name string) []string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Values
		}
	}
	return nil
}

// Request is an immutable view of an inbound HTTP request.
type Request struct {
	// Method is the HTTP method name, e.g. "GET".
	Method string `json:"method" yaml:"method"`

	// URL is the request-relative URL including the query string,
	// e.g. "/users/42?active=true".
	URL string `json:"url" yaml:"url"`

	// AbsoluteURL is the full URL including scheme and host.
	AbsoluteURL string `json:"absoluteUrl,omitempty" yaml:"absoluteUrl,omitempty"`

	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the request body as text. Empty when there is none.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// Query holds the query parameters. When nil they are parsed from URL.
	Query url.Values `json:"query,omitempty" yaml:"query,omitempty"`
}

// Path returns the URL path without the query string.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.URL, "?")
	return path
}

// QueryParameter looks up a query parameter by name.
func (r *Request) QueryParameter(name string) QueryParameter {
	values := r.query()[name]
	return QueryParameter{Key: name, Values: values}
}

func (r *Request) query() url.Values {
	if r.Query != nil {
		return r.Query
	}
	_, rawQuery, ok := strings.Cut(r.URL, "?")
	if !ok {
		return url.Values{}
	}
	// ParseQuery keeps every pair it could decode, so a malformed
	// pair only hides itself.
	values, _ := url.ParseQuery(rawQuery)
	return values
}

// QueryParameter is a named query parameter with its values in request order.
type QueryParameter struct {
	Key    string
	Values []string
}

// IsPresent reports whether the parameter carried at least one value.
func (q QueryParameter) IsPresent() bool {
	return len(q.Values) > 0
}
