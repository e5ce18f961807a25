package egnyte

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type folderListing struct {
	Name    string   `json:"name"`
	Folders []string `json:"folders"`
}

func TestDecode_JSON(t *testing.T) {
	body := `{"name":"Shared","folders":["a","b"]}`
	header := http.Header{
		"Content-Type": {"application/json"},
		"X-Multi":      {"first", "last"},
	}
	d := NewDispatcher(respondWith(http.StatusOK, body, header, nil), nil)

	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/pubapi/v1/fs/Shared", nil)
	resp, err := Decode[folderListing](context.Background(), d, req)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var want folderListing
	if err := json.Unmarshal([]byte(body), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp.Data, want) {
		t.Errorf("Data = %+v, want %+v", resp.Data, want)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := resp.Headers["Content-Type"]; got != "application/json" {
		t.Errorf("Content-Type header = %q", got)
	}
	if got := resp.Headers["X-Multi"]; got != "last" {
		t.Errorf("X-Multi header = %q, want last value", got)
	}
}

func TestDecode_String(t *testing.T) {
	d := NewDispatcher(respondWith(http.StatusCreated, "not { json", nil, nil), nil)

	req, _ := http.NewRequest(http.MethodPost, "https://acme.egnyte.com/x", nil)
	resp, err := Decode[string](context.Background(), d, req)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.Data != "not { json" {
		t.Errorf("Data = %q", resp.Data)
	}
}

func TestDecode_NonSuccess(t *testing.T) {
	tests := []struct {
		status int
		body   string
	}{
		{http.StatusBadRequest, `{"errorMessage":"bad"}`},
		{http.StatusNotFound, ""},
		{http.StatusMovedPermanently, "moved"},
		{http.StatusInternalServerError, "oops"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			d := NewDispatcher(respondWith(tt.status, tt.body, nil, nil), nil)
			req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

			_, err := Decode[folderListing](context.Background(), d, req)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Body != tt.body {
				t.Errorf("Body = %q, want %q", apiErr.Body, tt.body)
			}
			if apiErr.Err != nil {
				t.Errorf("Err = %v, want nil", apiErr.Err)
			}
		})
	}
}

func TestDecode_MalformedSuccessBody(t *testing.T) {
	d := NewDispatcher(respondWith(http.StatusOK, "<html>", nil, nil), nil)
	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

	_, err := Decode[folderListing](context.Background(), d, req)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusOK || apiErr.Body != "<html>" {
		t.Errorf("got status %d body %q", apiErr.StatusCode, apiErr.Body)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("cause = %v, want *json.SyntaxError", apiErr.Err)
	}
}

func TestDecode_TransportErrorUnwrapped(t *testing.T) {
	errDial := errors.New("dial tcp: connection refused")
	d := NewDispatcher(doFunc(func(*http.Request) (*http.Response, error) {
		return nil, errDial
	}), nil)
	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

	_, err := Decode[string](context.Background(), d, req)
	if err != errDial {
		t.Errorf("error = %v, want transport error as-is", err)
	}

	_, err = d.DownloadBytes(context.Background(), req)
	if err != errDial {
		t.Errorf("DownloadBytes error = %v, want transport error as-is", err)
	}
}

func TestDispatcher_EscapesBracketsOnTheWire(t *testing.T) {
	var requestURI string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestURI = r.RequestURI
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	d := NewDispatcher(ts.Client(), nil)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/pubapi/v1/fs/[T]%7BF%7D?filter=[x]", nil)
	if err != nil {
		t.Fatal(err)
	}
	before := req.URL.String()

	if _, err := Decode[string](context.Background(), d, req); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := "/pubapi/v1/fs/%5BT%5D%7BF%7D?filter=%5Bx%5D"
	if requestURI != want {
		t.Errorf("request URI = %q, want %q", requestURI, want)
	}
	if after := req.URL.String(); after != before {
		t.Errorf("caller request mutated: %q -> %q", before, after)
	}
}

type ctxKey struct{}

func TestDispatcher_PassesContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	var seen interface{}
	d := NewDispatcher(doFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Context().Value(ctxKey{})
		return newResponse(http.StatusOK, "", nil), nil
	}), nil)
	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

	if _, err := Decode[string](ctx, d, req); err != nil {
		t.Fatal(err)
	}
	if seen != "marker" {
		t.Errorf("transport saw context value %v", seen)
	}
}

func TestDownloadBytes_IgnoresStatus(t *testing.T) {
	header := http.Header{"Content-Type": {"text/plain"}}
	d := NewDispatcher(respondWith(http.StatusNotFound, "missing", header, nil), nil)
	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

	resp, err := d.DownloadBytes(context.Background(), req)
	if err != nil {
		t.Fatalf("DownloadBytes: %v", err)
	}
	if string(resp.Data) != "missing" {
		t.Errorf("Data = %q", resp.Data)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "text/plain" {
		t.Errorf("Headers = %v", resp.Headers)
	}
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDownloadStream_LeavesBodyOpen(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("file content")}
	d := NewDispatcher(doFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"X-Sha512-Checksum": {"abc"}},
			Body:       body,
		}, nil
	}), nil)
	req, _ := http.NewRequest(http.MethodGet, "https://acme.egnyte.com/x", nil)

	resp, err := d.DownloadStream(context.Background(), req)
	if err != nil {
		t.Fatalf("DownloadStream: %v", err)
	}
	if body.closed {
		t.Fatal("dispatcher closed the stream")
	}
	data, err := io.ReadAll(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "file content" {
		t.Errorf("stream = %q", data)
	}
	if resp.Headers["X-Sha512-Checksum"] != "abc" {
		t.Errorf("Headers = %v", resp.Headers)
	}
	resp.Data.Close()
	if !body.closed {
		t.Error("Close did not reach the body")
	}
}
