package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abtech/carlytics"
)

// Ensure Parser implements carlytics.ListingParser at compile time.
var _ carlytics.ListingParser = (*Parser)(nil)

// Parser turns a listing page into raw records: it locates listing nodes
// with the locator chosen for the source and extracts one record per node.
type Parser struct {
	registry  *Registry
	extractor *Extractor
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithRegistry sets the locator registry.
func WithRegistry(r *Registry) ParserOption {
	return func(p *Parser) {
		p.registry = r
	}
}

// WithExtractor sets the field extractor.
func WithExtractor(e *Extractor) ParserOption {
	return func(p *Parser) {
		p.extractor = e
	}
}

// NewParser creates a Parser with the default registry and extractor.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		registry:  NewDefaultRegistry(),
		extractor: NewExtractor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseListings parses html and returns one record per located node, in
// document order. A page without listing nodes yields an empty slice.
func (p *Parser) ParseListings(html, source string) ([]*carlytics.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, carlytics.Errorf(carlytics.EINVALID, "failed to parse HTML: %v", err)
	}

	nodes := p.registry.ForSource(source).Locate(doc)
	records := make([]*carlytics.RawRecord, 0, len(nodes))
	for _, node := range nodes {
		records = append(records, p.extract(node))
	}
	return records, nil
}

// extract reads one node. Fields already recover on their own; a panic
// escaping the extractor yields an all-defaults record.
func (p *Parser) extract(node *goquery.Selection) (rec *carlytics.RawRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = &carlytics.RawRecord{
				Name:     carlytics.DefaultName,
				Price:    carlytics.DefaultPrice,
				Location: carlytics.DefaultLocation,
				Year:     carlytics.DefaultYear,
			}
		}
	}()
	return p.extractor.Extract(node)
}
