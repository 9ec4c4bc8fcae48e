package carlytics

import (
	"context"
	"time"
)

// Run is an archived analysis cycle.
type Run struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	URL          string     `json:"url"`
	Fingerprint  string     `json:"fingerprint"`
	ListingCount int        `json:"listingCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	Listings     []*Listing `json:"listings,omitempty"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	if len(r.Listings) == 0 {
		return Errorf(EINVALID, "run listings required")
	}
	return nil
}

// RunService represents a service for archiving analysis runs.
type RunService interface {
	// CreateRun stores a run and its listings, assigning ID, Fingerprint,
	// ListingCount and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with its listings.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first, without
	// listings.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run and its listings.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
