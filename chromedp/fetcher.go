// Package chromedp provides a browser-backed implementation of
// carlytics.Fetcher on the Chrome DevTools Protocol via chromedp.
package chromedp

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/abtech/carlytics"
	"github.com/chromedp/chromedp"
)

// DefaultFetchTimeout bounds one whole browser session.
const DefaultFetchTimeout = 45 * time.Second

// DefaultWaitTimeout bounds the wait for listing nodes after navigation.
const DefaultWaitTimeout = 10 * time.Second

// DefaultUserAgent is reported by the browser.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Ensure Fetcher implements carlytics.Fetcher at compile time.
var _ carlytics.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML with a headless Chrome driven by chromedp.
// Each Fetch allocates its own browser process and tears it down before
// returning. Fetcher is safe for concurrent use.
type Fetcher struct {
	timeout      time.Duration
	waitSelector string
	waitTimeout  time.Duration
	execPath     string
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for one browser session.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWaitSelector sets the CSS selector awaited after navigation.
// An empty selector skips the wait.
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

// WithExecPath sets the Chrome binary. Empty uses chromedp's lookup.
func WithExecPath(path string) Option {
	return func(f *Fetcher) {
		f.execPath = path
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		waitSelector: carlytics.ListingWaitSelector(),
		waitTimeout:  DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to url in a fresh browser and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", carlytics.Errorf(carlytics.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "fetching %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(DefaultUserAgent),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelTab()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "navigating to %s: %v", url, err)
	}

	if f.waitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, f.waitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(f.waitSelector, chromedp.ByQuery))
		cancelWait()
		if err != nil && (ctx.Err() != nil || !errors.Is(err, context.DeadlineExceeded)) {
			return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "waiting for listings on %s: %v", url, err)
		}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", carlytics.WrapErrorf(err, carlytics.EFETCH, "reading %s: %v", url, err)
	}

	return html, nil
}

// Close marks the fetcher closed. Close is idempotent.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	return nil
}
