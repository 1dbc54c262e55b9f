package concurrent

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type Job[T any] struct {
	ID      int
	JobItem T
}

func NewJobs[T any](items []T) []Job[T] {
	jobs := make([]Job[T], len(items))
	for i, item := range items {
		jobs[i] = Job[T]{ID: i, JobItem: item}
	}
	return jobs
}

type JobFunc[T any, G any] func(ctx context.Context, job T) (G, error)

/*
WorkerPool. run jobs on at most numWorkers goroutines.

results are stored at the job ID index, so jobs must be numbered 0..len(jobs)-1 (NewJobs does that).
the first failing job cancels the context passed to the remaining jobs.
*/
type WorkerPool[T any, G any] struct {
	numWorkers int
	fn         JobFunc[T, G]
}

func NewWorkerPool[T any, G any](numWorkers int, fn JobFunc[T, G]) *WorkerPool[T, G] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		fn:         fn,
	}
}

func (wp *WorkerPool[T, G]) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool[T, G]) Run(ctx context.Context, jobs []Job[T]) ([]G, error) {
	results := make([]G, len(jobs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(wp.numWorkers)

	for _, job := range jobs {
		if job.ID < 0 || job.ID >= len(jobs) {
			return nil, fmt.Errorf("job id %d not in [0, %d)", job.ID, len(jobs))
		}
	}

	for _, job := range jobs {
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			res, err := wp.fn(egCtx, job.JobItem)
			if err != nil {
				return fmt.Errorf("job %d: %w", job.ID, err)
			}
			results[job.ID] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
