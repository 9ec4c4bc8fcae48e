package carlytics

import (
	"context"
	"time"
)

// EmptyResultMessage is shown to users when a cycle yields no listings.
const EmptyResultMessage = "No data fetched. The website structure may have changed or the site may be blocking requests."

// Report describes the outcome of one fetch-and-analyze cycle.
type Report struct {
	Source    *Source        `json:"source"`
	Located   int            `json:"located"`
	Listings  []*Listing     `json:"listings"`
	Stats     NormalizeStats `json:"stats"`
	FetchedAt time.Time      `json:"fetchedAt"`
	RunID     string         `json:"runId,omitempty"`
}

// Empty reports whether the cycle produced no usable listings. An empty
// report is a normal outcome, distinct from a fetch failure.
func (r *Report) Empty() bool {
	return len(r.Listings) == 0
}

// Analyzer runs the fetch, locate, extract and normalize pipeline.
type Analyzer interface {
	// Analyze runs one cycle for src. On success with at least one clean
	// listing the session is replaced; on fetch failure (EFETCH) or an empty
	// result the session is left untouched.
	Analyze(ctx context.Context, session *Session, src *Source) (*Report, error)
}
