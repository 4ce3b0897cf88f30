package transformer

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/vmtransform/pkg/stub"
	"github.com/getmockd/vmtransform/pkg/template"
)

func getRequest() *stub.Request {
	return &stub.Request{
		Method:      "GET",
		URL:         "/users/42?active=true",
		AbsoluteURL: "http://localhost:8080/users/42?active=true",
	}
}

func TestBuildContextBody(t *testing.T) {
	req := getRequest()
	req.Body = `{"name":"ada"}`

	ctx := BuildContext(req, nil)
	body, ok := ctx.Get("requestBody")
	require.True(t, ok)
	assert.Equal(t, `{"name":"ada"}`, body)

	ctx = BuildContext(getRequest(), nil)
	_, ok = ctx.Get("requestBody")
	assert.False(t, ok, "empty body must not be exposed")
}

func TestBuildContextHeaders(t *testing.T) {
	req := getRequest()
	req.Headers = stub.Headers{
		{Name: "X-Request-Id", Values: []string{"abc"}},
		{Name: "Accept", Values: []string{"text/html", "application/json"}},
		{Name: "Content-Type", Values: []string{"a"}},
		{Name: "ContentType", Values: []string{"b"}},
	}

	ctx := BuildContext(req, nil)

	v, ok := ctx.Get("requestHeaderXRequestId")
	require.True(t, ok)
	assert.Equal(t, "[abc]", v)

	v, _ = ctx.Get("requestHeaderAccept")
	assert.Equal(t, "[text/html, application/json]", v)

	v, _ = ctx.Get("requestHeaderContentType")
	assert.Equal(t, "[b]", v, "the last header mapping to a name wins")
}

func TestBuildContextRequestFields(t *testing.T) {
	ctx := BuildContext(getRequest(), nil)

	assert.Equal(t, []string{
		"requestAbsoluteUrl",
		"requestUrl",
		"requestMethod",
		"requestPath",
		"dateRange",
		"date",
		"number",
		"math",
		"esc",
	}, ctx.Keys())

	v, _ := ctx.Get("requestMethod")
	assert.Equal(t, "GET", v)
	v, _ = ctx.Get("requestUrl")
	assert.Equal(t, "/users/42?active=true", v)
	v, _ = ctx.Get("requestAbsoluteUrl")
	assert.Equal(t, "http://localhost:8080/users/42?active=true", v)
	v, _ = ctx.Get("requestPath")
	assert.Equal(t, []string{"", "users", "42", "active=true"}, v)
	v, _ = ctx.Get("dateRange")
	assert.IsType(t, template.DateRange{}, v)
}

func TestBuildContextRequestPath(t *testing.T) {
	tests := []struct {
		url  string
		want []string
	}{
		{"/users/42?active=true", []string{"", "users", "42", "active=true"}},
		{"/users/", []string{"", "users"}},
		{"users", []string{"users"}},
		{"/a?b?c", []string{"", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			req := getRequest()
			req.URL = tt.url
			v, _ := BuildContext(req, nil).Get("requestPath")
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestBuildContextQuery(t *testing.T) {
	req := getRequest()
	req.Query = url.Values{"a": {"1", "2"}, "b": {"x"}}

	ctx := BuildContext(req, stub.Parameters{"query": "a,c"})

	v, ok := ctx.Get("query-a")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, v)

	_, ok = ctx.Get("query-c")
	assert.False(t, ok, "absent parameter")
	_, ok = ctx.Get("query-b")
	assert.False(t, ok, "parameter not requested")
}

func TestBuildContextQueryFromURL(t *testing.T) {
	req := getRequest()
	req.URL = "/search?q=go&tag=a&tag=b"

	ctx := BuildContext(req, stub.Parameters{"query": " tag , , q "})

	v, _ := ctx.Get("query-tag")
	assert.Equal(t, []string{"a", "b"}, v)
	v, _ = ctx.Get("query-q")
	assert.Equal(t, []string{"go"}, v)
}

func TestBuildContextWithoutQueryParameter(t *testing.T) {
	req := getRequest()
	ctx := BuildContext(req, stub.Parameters{"other": "active"})
	_, ok := ctx.Get("query-active")
	assert.False(t, ok)
}

func TestBuildContextDefersDateParsing(t *testing.T) {
	// The context is built without evaluating any date; a bad date only
	// fails once a template calls the tool.
	ctx := BuildContext(getRequest(), nil)
	v, ok := ctx.Get("dateRange")
	require.True(t, ok)

	tool, ok := v.(template.Tool)
	require.True(t, ok)
	_, err := tool.Invoke("of", "2020-02-30", "2020-03-01")
	var dpe *template.DateParseError
	assert.ErrorAs(t, err, &dpe)
}

func TestHeaderVar(t *testing.T) {
	assert.Equal(t, "requestHeaderXRequestId", HeaderVar("X-Request-Id"))
	assert.Equal(t, "requestHeaderaccept", HeaderVar("accept"))
	assert.Equal(t, "requestHeader", HeaderVar("--"))
}

func TestBuildContextToolsFollowRequestData(t *testing.T) {
	req := getRequest()
	req.URL = "/search?tag=a"

	keys := BuildContext(req, stub.Parameters{"query": "tag"}).Keys()
	require.GreaterOrEqual(t, len(keys), 5)
	assert.Equal(t, []string{"query-tag", "date", "number", "math", "esc"}, keys[len(keys)-5:])
}
