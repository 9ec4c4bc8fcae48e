package slog

import (
	"log/slog"
	"time"

	"github.com/abtech/carlytics"
)

// Ensure LoggingParser implements carlytics.ListingParser.
var _ carlytics.ListingParser = (*LoggingParser)(nil)

// LoggingParser wraps a ListingParser and logs the chosen rule and the
// number of located nodes.
type LoggingParser struct {
	next   carlytics.ListingParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next carlytics.ListingParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseListings delegates to the wrapped parser.
func (p *LoggingParser) ParseListings(html, source string) (records []*carlytics.RawRecord, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse",
			"source", source,
			"rule", carlytics.RuleFor(source),
			"nodes", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseListings(html, source)
}
