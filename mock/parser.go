package mock

import (
	"github.com/abtech/carlytics"
)

var _ carlytics.ListingParser = (*ListingParser)(nil)

// ListingParser is a mock implementation of carlytics.ListingParser.
type ListingParser struct {
	ParseListingsFn func(html, source string) ([]*carlytics.RawRecord, error)
}

func (p *ListingParser) ParseListings(html, source string) ([]*carlytics.RawRecord, error) {
	return p.ParseListingsFn(html, source)
}
