package mock

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of scrape.ResultWriter.
type ResultWriter struct {
	SaveFn func(sourceURL string, data any, path string) error
}

func (w *ResultWriter) Save(sourceURL string, data any, path string) error {
	return w.SaveFn(sourceURL, data, path)
}

var _ scrape.RunService = (*RunService)(nil)

// RunService is a mock implementation of scrape.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *scrape.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*scrape.Run, error)
	FindRunsFn    func(ctx context.Context, filter scrape.RunFilter) ([]*scrape.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *scrape.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*scrape.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter scrape.RunFilter) ([]*scrape.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
