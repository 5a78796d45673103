package executor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunAll executes independent runs concurrently, at most parallelism at a time
// (parallelism <= 0 means no limit). Results are returned in input order.
//
// Runs do not share history or counters, and a failed run does not cancel the others. The
// returned error joins the errors of all failed runs; the matching result entries are
// non-nil whenever the run started.
func (e *Executor) RunAll(ctx context.Context, inputs []map[string]string, parallelism int) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, in := range inputs {
		g.Go(func() error {
			res, err := e.Run(ctx, in)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("run %d: %w", i, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
