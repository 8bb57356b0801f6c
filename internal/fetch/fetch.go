// Package fetch retrieves remote source files and hands them back as
// ordered line sequences.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes is the upper bound on a fetched file's size (10 MB).
// Prevents unbounded memory consumption from a misbehaving remote.
const maxResponseBytes = 10 << 20

// Error is the single failure kind the fetch boundary reports. Network
// errors, non-success statuses and read failures all collapse into it.
type Error struct {
	Address string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Address, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type (
	// Client fetches source files over HTTP.
	Client struct {
		httpClient *http.Client
		userAgent  string
		timeout    time.Duration
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Client) {
		f.userAgent = ua
	}
}

// WithTimeout bounds each individual fetch. Zero means no per-fetch
// deadline beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(f *Client) {
		f.timeout = d
	}
}

// NewClient creates a Client with sensible defaults:
// httpClient=http.DefaultClient, userAgent="scriptpack/dev", no timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "scriptpack/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lines performs a blocking retrieval of address and returns its
// content split into lines. Line endings are normalized and a trailing
// newline produces no empty final line. Any failure is reported as a
// *Error carrying the address.
func (c *Client) Lines(ctx context.Context, address string) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, http.NoBody)
	if err != nil {
		return nil, &Error{Address: address, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Address: address, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Address: address, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Address: address, Err: fmt.Errorf("reading body: %w", err)}
	}

	return SplitLines(string(body)), nil
}

// SplitLines breaks content into lines, normalizing CRLF endings and
// dropping the empty artifact a trailing newline would leave behind.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
