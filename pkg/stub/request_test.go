package stub

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/users/42?active=true", "/users/42"},
		{"/users/42", "/users/42"},
		{"/", "/"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := &Request{URL: tt.url}
			assert.Equal(t, tt.want, r.Path())
		})
	}
}

func TestQueryParameter_ParsedFromURL(t *testing.T) {
	r := &Request{URL: "/search?a=1&a=2&b=x&empty="}

	a := r.QueryParameter("a")
	assert.True(t, a.IsPresent())
	assert.Equal(t, []string{"1", "2"}, a.Values)

	assert.Equal(t, []string{"x"}, r.QueryParameter("b").Values)
	assert.True(t, r.QueryParameter("empty").IsPresent(), "empty value still counts as a value")
	assert.False(t, r.QueryParameter("missing").IsPresent())
}

func TestQueryParameter_ExplicitQueryWins(t *testing.T) {
	r := &Request{
		URL:   "/search?a=from-url",
		Query: url.Values{"a": {"from-query"}},
	}
	assert.Equal(t, []string{"from-query"}, r.QueryParameter("a").Values)
}

func TestQueryParameter_NoQueryString(t *testing.T) {
	r := &Request{URL: "/plain"}
	assert.False(t, r.QueryParameter("a").IsPresent())
}

func TestHeadersGet(t *testing.T) {
	h := Headers{
		{Name: "Content-Type", Values: []string{"application/json"}},
		{Name: "Accept", Values: []string{"text/html", "application/xml"}},
	}
	assert.Equal(t, []string{"application/json"}, h.Get("content-type"))
	assert.Equal(t, []string{"text/html", "application/xml"}, h.Get("Accept"))
	assert.Nil(t, h.Get("X-Missing"))
}
