package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers groups the given workers for collective startup.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and blocks until all of them
// return. The first worker error cancels the remaining ones through the
// shared context.
func (w *Workers) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		worker := worker
		group.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return group.Wait()
}
