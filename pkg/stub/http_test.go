package stub

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromHTTP(t *testing.T) {
	r := httptest.NewRequest("POST", "http://api.example.com/users/42?active=true&tag=a&tag=b", strings.NewReader(`{"name":"x"}`))
	r.Header.Set("X-Request-Id", "abc")
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "application/json")

	req, err := RequestFromHTTP(r)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/users/42?active=true&tag=a&tag=b", req.URL)
	assert.Equal(t, "http://api.example.com/users/42?active=true&tag=a&tag=b", req.AbsoluteURL)
	assert.Equal(t, `{"name":"x"}`, req.Body)
	assert.Equal(t, []string{"a", "b"}, req.QueryParameter("tag").Values)

	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Accept", req.Headers[0].Name, "headers are sorted by name")
	assert.Equal(t, []string{"text/html", "application/json"}, req.Headers[0].Values)
	assert.Equal(t, "X-Request-Id", req.Headers[1].Name)

	// Body stays readable for the rest of the handler chain.
	again, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(again))
}

func TestRequestFromHTTP_RelativeURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/ping", nil)
	r.URL.Scheme = ""
	r.URL.Host = ""
	r.Host = "localhost:8080"

	req, err := RequestFromHTTP(r)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/ping", req.AbsoluteURL)
	assert.Equal(t, "", req.Body)
}

func TestRequestFromHTTP_BodyLimit(t *testing.T) {
	t.Run("at limit", func(t *testing.T) {
		payload := bytes.Repeat([]byte("a"), maxBodySize)
		r := httptest.NewRequest("POST", "/upload", bytes.NewReader(payload))

		req, err := RequestFromHTTP(r)
		require.NoError(t, err)
		assert.Len(t, req.Body, maxBodySize)

		again, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Len(t, again, maxBodySize)
	})

	t.Run("over limit", func(t *testing.T) {
		payload := bytes.Repeat([]byte("a"), maxBodySize+5)
		r := httptest.NewRequest("POST", "/upload", bytes.NewReader(payload))

		req, err := RequestFromHTTP(r)
		require.ErrorIs(t, err, ErrBodyTooLarge)
		assert.Nil(t, req)

		// Nothing is lost for later handlers.
		again, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Len(t, again, maxBodySize+5)
		require.NoError(t, r.Body.Close())
	})
}
