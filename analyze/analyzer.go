// Package analyze runs the carlytics pipeline: fetch one listing page,
// locate and extract its listings, normalize them and publish the clean
// table to the session.
package analyze

import (
	"context"
	"errors"
	"time"

	"github.com/abtech/carlytics"
)

// Ensure Analyzer implements carlytics.Analyzer at compile time.
var _ carlytics.Analyzer = (*Analyzer)(nil)

// Analyzer runs one strictly sequential cycle per call.
type Analyzer struct {
	// Static fetches sources rendered on the server. Required.
	Static carlytics.Fetcher

	// Browser fetches sources that need JavaScript. When nil, those sources
	// are fetched with Static.
	Browser carlytics.Fetcher

	Parser carlytics.ListingParser

	// Runs archives every non-empty table when set.
	Runs carlytics.RunService

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Analyze fetches src, extracts and normalizes its listings and replaces the
// session table with the result. A fetch failure is returned with code
// EFETCH; an empty result returns an empty report. In both cases the
// session keeps its previous table.
func (a *Analyzer) Analyze(ctx context.Context, session *carlytics.Session, src *carlytics.Source) (*carlytics.Report, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	fetchedAt := a.now()

	html, err := a.fetcherFor(src).Fetch(ctx, src.URL)
	if err != nil {
		var appErr *carlytics.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, carlytics.WrapErrorf(err, carlytics.EFETCH, "fetching %s: %v", src.Name, err)
	}

	records, err := a.Parser.ParseListings(html, src.Name)
	if err != nil {
		return nil, err
	}

	listings, stats := carlytics.NormalizeWithStats(records)
	report := &carlytics.Report{
		Source:    src,
		Located:   len(records),
		Listings:  listings,
		Stats:     stats,
		FetchedAt: fetchedAt,
	}
	if report.Empty() {
		return report, nil
	}

	if a.Runs != nil {
		run := &carlytics.Run{
			Source:   src.Name,
			URL:      src.URL,
			Listings: listings,
		}
		if err := a.Runs.CreateRun(ctx, run); err != nil {
			return nil, err
		}
		report.RunID = run.ID
	}

	session.Replace(&carlytics.Snapshot{
		Source:    src.Name,
		URL:       src.URL,
		Listings:  listings,
		FetchedAt: fetchedAt,
	})

	return report, nil
}

// fetcherFor picks the fetcher for the source's render mode.
func (a *Analyzer) fetcherFor(src *carlytics.Source) carlytics.Fetcher {
	if src.Render == carlytics.RenderBrowser && a.Browser != nil {
		return a.Browser
	}
	return a.Static
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
