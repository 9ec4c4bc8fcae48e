package carlytics

// ListingParser turns a fetched page into raw records.
type ListingParser interface {
	// ParseListings locates the listing nodes of html using the locator rule
	// for source and extracts one RawRecord per node, in document order.
	// A page without listings yields an empty slice, not an error.
	// An error is returned only when html cannot be parsed at all.
	ParseListings(html string, source string) ([]*RawRecord, error)
}
