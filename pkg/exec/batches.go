package exec

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ArtCorp/exprdag/pkg/program"
)

// ExecuteBatches runs p against each block in blocks concurrently, one
// Executor (and therefore one slot array) per block so unrelated blocks
// never contend, matching pkg/plan's use of golang.org/x/sync/errgroup to
// fan parallel per-chunk work out over a worker pool. numRows[i] is the
// row count of blocks[i]; results[i] holds blocks[i]'s output columns.
func ExecuteBatches(ctx context.Context, p *program.Program, blocks []Block, numRows []int, projectInput bool) ([]Block, error) {
	results := make([]Block, len(blocks))
	g, _ := errgroup.WithContext(ctx)
	for i := range blocks {
		i := i
		g.Go(func() error {
			out, err := NewExecutor(p).Execute(p, blocks[i], numRows[i], projectInput)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
