package carlytics

import "context"

// Fetcher retrieves the HTML of a listing page.
// Implementations may use browser automation to handle JavaScript-rendered
// content. Failures (transport, status, content type) are reported as
// errors with code EFETCH.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}
