// Package http provides the HTTP transport for scrape: a Fetcher that
// retrieves static pages and a Server exposing extraction as a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/scrape"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds every request made by a Fetcher.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Ensure Fetcher implements scrape.Fetcher at compile time.
var _ scrape.Fetcher = (*Fetcher)(nil)

// StatusError is returned for a response outside the 2xx range.
// It unwraps to an ENETWORK application error.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return scrape.Errorf(scrape.ENETWORK, "%s", e.Error())
}

// Retryable reports whether a failed fetch may succeed on another attempt:
// transport failures, server errors and 429 responses.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return scrape.ErrorCode(err) == scrape.ENETWORK
}

// Fetcher retrieves HTML content from URLs using a single GET request.
// It does not execute JavaScript and never retries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
// Defaults to DefaultUserAgent if not specified.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTransport overrides the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves the page at rawURL and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", scrape.Errorf(scrape.EINVALID, "invalid URL %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", scrape.Errorf(scrape.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", scrape.Errorf(scrape.ENETWORK, "request to %s failed: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", scrape.Errorf(scrape.ENETWORK, "decode body of %s: %v", rawURL, err)
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return "", scrape.Errorf(scrape.ENETWORK, "read body of %s: %v", rawURL, err)
	}

	return string(b), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
