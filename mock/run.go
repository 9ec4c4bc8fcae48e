package mock

import (
	"context"

	"github.com/abtech/carlytics"
)

var _ carlytics.RunService = (*RunService)(nil)

// RunService is a mock implementation of carlytics.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *carlytics.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*carlytics.Run, error)
	FindRunsFn    func(ctx context.Context, filter carlytics.RunFilter) ([]*carlytics.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *carlytics.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*carlytics.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter carlytics.RunFilter) ([]*carlytics.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
