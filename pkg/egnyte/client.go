package egnyte

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/egnyte/pkg/log"
)

const defaultTimeout = 30 * time.Second

// Client is the entry point to the Egnyte API for one domain.
type Client struct {
	// Files groups the file system endpoints.
	Files *FilesService

	dispatcher  *Dispatcher
	baseURL     string
	accessToken string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient HTTPClient
	baseURL    string
	logger     log.Logger
	timeout    time.Duration
}

// WithHTTPClient sends requests through c instead of a fresh *http.Client.
// WithTimeout is ignored when this option is set.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithBaseURL overrides https://{domain}.egnyte.com.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewClient creates a client for domain (the "acme" in acme.egnyte.com)
// authenticating with an OAuth bearer token.
func NewClient(domain, accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		if domain == "" {
			return nil, ErrEmptyDomain
		}
		o.baseURL = fmt.Sprintf("https://%s.egnyte.com", domain)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	c := &Client{
		dispatcher:  NewDispatcher(o.httpClient, o.logger),
		baseURL:     strings.TrimSuffix(o.baseURL, "/"),
		accessToken: accessToken,
	}
	c.Files = &FilesService{client: c}
	return c, nil
}

// Dispatcher returns the dispatcher backing c, for endpoints the client
// does not wrap.
func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// newRequest builds an authenticated request against endpoint, which must
// already be escaped.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return req, nil
}

// escapePath escapes each segment of an Egnyte path and drops the leading
// slash, so "/Shared/a b" becomes "Shared/a%20b".
func escapePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
