package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/abtech/carlytics"
)

// Ensure LoggingAnalyzer implements carlytics.Analyzer.
var _ carlytics.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer and logs one line per cycle.
type LoggingAnalyzer struct {
	next   carlytics.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next carlytics.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, session *carlytics.Session, src *carlytics.Source) (report *carlytics.Report, err error) {
	defer func(begin time.Time) {
		attrs := []any{"source", src.Name}
		if report != nil {
			attrs = append(attrs,
				"located", report.Located,
				"listings", len(report.Listings),
				"dropped_price", report.Stats.DroppedPrice,
				"imputed_years", report.Stats.ImputedYears,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		a.logger.Info("analyze", attrs...)
	}(time.Now())
	return a.next.Analyze(ctx, session, src)
}
