package depgraph

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkers bounds [BuildAll] when no worker count is given.
const DefaultWorkers = 4

// Result is the outcome of building one root.
type Result struct {
	Root  string
	Graph *Graph
	Cycle bool
}

// BuildAll runs [Build] for every root on a bounded pool of goroutines.
// Each build gets its own traversal state; adj must not change while
// BuildAll runs. Results are returned in the order of roots.
//
// If ctx is cancelled, roots not yet started are skipped and ctx.Err() is
// returned together with the results gathered so far.
func BuildAll(ctx context.Context, roots []string, adj Adjacency, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make([]Result, len(roots))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, root := range roots {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, cycle := Build(root, adj)
			results[i] = Result{Root: root, Graph: g, Cycle: cycle}
			return nil
		})
	}
	err := p.Wait()
	return results, err
}
