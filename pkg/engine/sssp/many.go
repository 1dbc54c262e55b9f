package sssp

import (
	"context"

	"github.com/lintang-b-s/roaddist/pkg/concurrent"
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
)

// RunMany. independent runs from every source over the same graph, at most workers at a time.
// tables are returned in the order of sources. the graph is only read, so no locking is needed.
func (e *Engine) RunMany(ctx context.Context, sources []datastructure.VertexID, workers int) ([]*datastructure.DistanceTable, error) {
	wp := concurrent.NewWorkerPool(workers, func(ctx context.Context, source datastructure.VertexID) (*datastructure.DistanceTable, error) {
		return e.Run(ctx, source)
	})
	return wp.Run(ctx, concurrent.NewJobs(sources))
}
