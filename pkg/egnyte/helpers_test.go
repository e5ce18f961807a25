package egnyte

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// doFunc adapts a function to HTTPClient.
type doFunc func(req *http.Request) (*http.Response, error)

func (f doFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func newResponse(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// respondWith returns an HTTPClient that always answers with the given
// response and stores the last request it saw in *last.
func respondWith(status int, body string, header http.Header, last **http.Request) HTTPClient {
	return doFunc(func(req *http.Request) (*http.Response, error) {
		if last != nil {
			*last = req
		}
		return newResponse(status, body, header), nil
	})
}

func newTestClient(t *testing.T, hc HTTPClient) *Client {
	t.Helper()
	c, err := NewClient("acme", "token", WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}
