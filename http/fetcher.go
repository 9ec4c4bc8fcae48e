// Package http provides an HTTP-based implementation of carlytics.Fetcher
// for listing sites that serve their listings without JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/abtech/carlytics"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for one HTTP attempt.
const DefaultFetchTimeout = 15 * time.Second

// DefaultUserAgent is sent with every request. Listing sites tend to turn
// away clients that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 10 << 20

// DefaultRetryDelays returns the backoff used between transport-level
// retries: three retries after 1s, 2s and 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Fetcher implements carlytics.Fetcher at compile time.
var _ carlytics.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	delays      []time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP attempt.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRetryDelays sets the delays between retries. The number of delays is
// the number of retries; no delays disables retrying.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithMaxBodySize sets the maximum number of bytes read from a response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		delays:      DefaultRetryDelays(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and returns it decoded to UTF-8.
// Transport errors are retried; status and content-type failures are not.
// All failures carry the EFETCH code.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(f.delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", carlytics.WrapErrorf(ctx.Err(), carlytics.EFETCH, "fetching %s: %v", url, ctx.Err())
			case <-time.After(f.delays[attempt-1]):
			}
		}

		html, err := f.fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		var appErr *carlytics.Error
		if errors.As(err, &appErr) || ctx.Err() != nil {
			break
		}
	}

	var appErr *carlytics.Error
	if errors.As(lastErr, &appErr) {
		return "", lastErr
	}
	return "", carlytics.WrapErrorf(lastErr, carlytics.EFETCH, "fetching %s: %v", url, lastErr)
}

// fetch performs one attempt. Transport errors are returned unwrapped so
// the caller can retry them.
func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", carlytics.Errorf(carlytics.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	if !isMarkup(contentType) {
		return "", carlytics.Errorf(carlytics.EFETCH, "unsupported content type %q for %s", contentType, url)
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "decoding %s: %v", url, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "decoding %s: %v", url, err)
	}

	return string(decoded), nil
}

// isMarkup reports whether the content type is text or markup.
func isMarkup(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml", mediaType == "application/xml":
		return true
	}
	return false
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
