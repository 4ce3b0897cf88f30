package stub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixture_MappingHeaders(t *testing.T) {
	data := []byte(`
request:
  method: POST
  url: /users/42?active=true
  headers:
    X-Request-Id: abc
    Accept:
      - text/html
      - application/json
  body: '{"name":"x"}'
response:
  status: 201
  headers:
    Content-Type: application/json
  bodyFileName: user.vm
  transformerParameters:
    query: active
`)
	f, err := ParseFixture(data)
	require.NoError(t, err)

	assert.Equal(t, "POST", f.Request.Method)
	assert.Equal(t, "http://localhost/users/42?active=true", f.Request.AbsoluteURL)
	require.Len(t, f.Request.Headers, 2)
	assert.Equal(t, Header{Name: "X-Request-Id", Values: []string{"abc"}}, f.Request.Headers[0])
	assert.Equal(t, Header{Name: "Accept", Values: []string{"text/html", "application/json"}}, f.Request.Headers[1])
	assert.Equal(t, `{"name":"x"}`, f.Request.Body)

	assert.Equal(t, 201, f.Response.Status)
	assert.Equal(t, "user.vm", f.Response.BodyFileName)
	q, ok := f.Response.TransformerParameters.GetString("query")
	assert.True(t, ok)
	assert.Equal(t, "active", q)
}

func TestParseFixture_ListHeadersAndDefaults(t *testing.T) {
	data := []byte(`
request:
  headers:
    - name: X-One
      values: [a, b]
response:
  bodyFileName: x.vm
`)
	f, err := ParseFixture(data)
	require.NoError(t, err)

	assert.Equal(t, "GET", f.Request.Method)
	assert.Equal(t, "/", f.Request.URL)
	assert.Equal(t, Headers{{Name: "X-One", Values: []string{"a", "b"}}}, f.Request.Headers)
}

func TestParseFixture_Invalid(t *testing.T) {
	_, err := ParseFixture([]byte("request: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = ParseFixture([]byte("request:\n  headers: 42\n"))
	assert.ErrorIs(t, err, ErrInvalidFixture)
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("response:\n  bodyFileName: a.vm\n"), 0644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "a.vm", f.Response.BodyFileName)

	_, err = LoadFixture(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
