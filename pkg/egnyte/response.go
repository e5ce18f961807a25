package egnyte

import "net/http"

// Response is a materialized API response.
type Response[T any] struct {
	// Data is the decoded payload: a JSON-decoded value, the raw body text,
	// the raw body bytes, or an unread body stream.
	Data T

	// Headers maps each canonical header name to its last value.
	Headers map[string]string

	// StatusCode is the HTTP status the server answered with.
	StatusCode int
}

// flattenHeaders keeps the last value of every header. net/http already
// merges entity headers such as Content-Type into resp.Header, so there is
// only one set to flatten.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		out[name] = values[len(values)-1]
	}
	return out
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
