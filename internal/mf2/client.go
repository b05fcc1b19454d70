package mf2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches pages and parses their microformats2 markup.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (timeouts, transport) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with mock transport or httptest servers
type Client struct {
	// client is the underlying HTTP client.
	client *http.Client

	// userAgent is the User-Agent header to use for requests.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from unexpectedly large pages.
	maxBodySize int64

	// timeout is the per-request timeout.
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserAgent sets a custom User-Agent header.
// A descriptive User-Agent lets page operators identify resolver traffic
// in their logs.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
// Default is 5MB, enough for any profile page.
func WithMaxBodySize(size int64) ClientOption {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a fetching parser client.
// If httpClient is nil, http.DefaultClient is used.
func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		client:      httpClient,
		userAgent:   "pseudonym/1.0 (+https://github.com/cleverdevil/pseudonym)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		timeout:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Parse fetches the page at the given URL and parses its microformats2
// markup. Network failures and non-success statuses are reported as
// ErrFetch; malformed markup as ErrParse. A single attempt is made: the
// caller decides whether a failure is fatal.
func (c *Client) Parse(ctx context.Context, pageURL string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d for %s", ErrFetch, resp.StatusCode, pageURL)
	}

	parser, err := NewParser(pageURL)
	if err != nil {
		return nil, err
	}

	return parser.Parse(io.LimitReader(resp.Body, c.maxBodySize))
}
