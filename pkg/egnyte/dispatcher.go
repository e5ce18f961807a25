package egnyte

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bft-labs/egnyte/pkg/log"
)

// Dispatcher sends prepared requests and materializes their responses.
// It keeps no per-call state and is safe for concurrent use when its
// HTTPClient is.
type Dispatcher struct {
	client HTTPClient
	logger log.Logger
}

// NewDispatcher creates a Dispatcher over client. A nil logger discards
// output.
func NewDispatcher(client HTTPClient, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Dispatcher{
		client: client,
		logger: logger,
	}
}

// Decode sends req and decodes a 2xx body as JSON into T. When T is string
// the body text is returned as-is.
//
// A non-2xx status yields *APIError with no cause; a 2xx body that does not
// decode yields *APIError wrapping the decoding error. Transport errors are
// returned unchanged.
func Decode[T any](ctx context.Context, d *Dispatcher, req *http.Request) (*Response[T], error) {
	resp, err := d.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	body := string(raw)

	if !isSuccess(resp.StatusCode) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	out := &Response[T]{
		Headers:    flattenHeaders(resp.Header),
		StatusCode: resp.StatusCode,
	}
	if text, ok := any(&out.Data).(*string); ok {
		*text = body
		return out, nil
	}
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body, Err: err}
	}
	return out, nil
}

// DownloadBytes sends req and returns the whole body whatever the status.
// Callers decide what a non-2xx StatusCode means.
func (d *Dispatcher) DownloadBytes(ctx context.Context, req *http.Request) (*Response[[]byte], error) {
	resp, err := d.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response[[]byte]{
		Data:       data,
		Headers:    flattenHeaders(resp.Header),
		StatusCode: resp.StatusCode,
	}, nil
}

// DownloadStream sends req and hands back the unread body. The caller must
// close Data.
func (d *Dispatcher) DownloadStream(ctx context.Context, req *http.Request) (*Response[io.ReadCloser], error) {
	resp, err := d.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Response[io.ReadCloser]{
		Data:       resp.Body,
		Headers:    flattenHeaders(resp.Header),
		StatusCode: resp.StatusCode,
	}, nil
}

// send clones req onto ctx, escapes its URL and executes it. The caller's
// request is left untouched.
func (d *Dispatcher) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	out := req.Clone(ctx)
	escapeURL(out.URL)

	start := time.Now()
	resp, err := d.client.Do(out)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("egnyte request",
		log.String("method", out.Method),
		log.String("url", out.URL.Redacted()),
		log.Int("status", resp.StatusCode),
		log.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
