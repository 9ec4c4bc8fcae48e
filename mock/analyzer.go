package mock

import (
	"context"

	"github.com/abtech/carlytics"
)

var _ carlytics.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of carlytics.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, session *carlytics.Session, src *carlytics.Source) (*carlytics.Report, error)
}

func (a *Analyzer) Analyze(ctx context.Context, session *carlytics.Session, src *carlytics.Source) (*carlytics.Report, error) {
	return a.AnalyzeFn(ctx, session, src)
}
