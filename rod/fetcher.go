// Package rod provides a browser-backed implementation of carlytics.Fetcher
// for listing sites that render their listings with JavaScript.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/abtech/carlytics"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds one whole browser session: launch, navigation,
// waiting and serialization.
const DefaultFetchTimeout = 45 * time.Second

// DefaultWaitTimeout bounds the wait for listing nodes after the page has
// loaded. A page without listings is not an error, so running out of time
// here still returns the rendered HTML.
const DefaultWaitTimeout = 10 * time.Second

// Ensure Fetcher implements carlytics.Fetcher at compile time.
var _ carlytics.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a headless Chrome browser.
// Every Fetch launches its own browser and releases it before returning,
// on success and on failure. Fetcher is safe for concurrent use.
type Fetcher struct {
	timeout      time.Duration
	waitSelector string
	waitTimeout  time.Duration
	headless     bool
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for one browser session.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWaitSelector sets the CSS selector awaited after page load.
// An empty selector skips the wait. Defaults to
// carlytics.ListingWaitSelector().
func WithWaitSelector(sel string) Option {
	return func(f *Fetcher) {
		f.waitSelector = sel
	}
}

// WithWaitTimeout sets how long to wait for the wait selector.
func WithWaitTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.waitTimeout = d
	}
}

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(f *Fetcher) {
		f.headless = headless
	}
}

// NewFetcher creates a new Fetcher. No browser is started until Fetch.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		waitSelector: carlytics.ListingWaitSelector(),
		waitTimeout:  DefaultWaitTimeout,
		headless:     true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch launches a browser, navigates to url and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", carlytics.Errorf(carlytics.EINVALID, "fetcher closed")
	}

	// Check context before starting
	if err := ctx.Err(); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "fetching %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(f.headless).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "launching browser: %v", err)
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "connecting to browser: %v", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "opening page: %v", err)
	}
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "loading %s: %v", url, err)
	}

	if f.waitSelector != "" {
		_, err := page.Timeout(f.waitTimeout).Element(f.waitSelector)
		if err != nil && (ctx.Err() != nil || !errors.Is(err, context.DeadlineExceeded)) {
			return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "waiting for listings on %s: %v", url, err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "reading %s: %v", url, err)
	}

	return html, nil
}

// Close marks the fetcher closed. Later calls to Fetch fail with EINVALID.
// Close is idempotent.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	return nil
}
