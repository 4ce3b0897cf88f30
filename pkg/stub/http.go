package stub

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// maxBodySize caps how much of an inbound body is exposed to templates.
const maxBodySize = 10 << 20

// ErrBodyTooLarge is returned when a request body exceeds 10MB.
var ErrBodyTooLarge = errors.New("request body too large")

// RequestFromHTTP converts an inbound net/http request into a Request.
// The body is read and put back on r so later handlers can read it again.
// Bodies over 10MB fail with ErrBodyTooLarge; r.Body still yields every byte.
// http.Header carries no order, so headers are emitted sorted by name.
func RequestFromHTTP(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		if len(body) > maxBodySize {
			r.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(body), r.Body), Closer: r.Body}
			return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, maxBodySize)
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	slices.Sort(names)

	headers := make(Headers, 0, len(names))
	for _, name := range names {
		headers = append(headers, Header{Name: name, Values: slices.Clone(r.Header[name])})
	}

	return &Request{
		Method:      r.Method,
		URL:         r.URL.RequestURI(),
		AbsoluteURL: absoluteURL(r),
		Headers:     headers,
		Body:        string(body),
		Query:       r.URL.Query(),
	}, nil
}

func absoluteURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// replayBody serves the bytes already read followed by the unread remainder.
type replayBody struct {
	io.Reader
	io.Closer
}
