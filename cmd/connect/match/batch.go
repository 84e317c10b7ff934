package match

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// NewRunnerFunc builds the runner for the match with the specified index.
// Each call must return a runner with its own agents and random sources; only
// the geometry may be shared.
type NewRunnerFunc func(index int) (*Runner, error)

// Batch plays games matches using up to workers goroutines. Results are
// delivered to collect from a single goroutine, in completion order. The
// first error, from a match or from collect, cancels the remaining matches
// and is the one returned.
func Batch(ctx context.Context, games int, workers int, newRunner NewRunnerFunc, collect func(index int, res Result) error) error {
	if workers < 1 {
		workers = 1
	}

	type finished struct {
		index int
		res   Result
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan finished, workers)

	// -------------------------------------------------------------------------
	// Collect results on this goroutine so sinks need no locking.

	collected := make(chan error, 1)
	go func() {
		var err error
		for f := range results {
			if err != nil {
				continue
			}
			if err = collect(f.index, f.res); err != nil {
				cancel(err)
			}
		}
		collected <- err
	}()

	// -------------------------------------------------------------------------
	// Start a goroutine per match, bounded by the worker limit.

	for i := range games {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			r, err := newRunner(i)
			if err != nil {
				return fmt.Errorf("game %d: new runner: %w", i, err)
			}

			res, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			select {
			case results <- finished{index: i, res: res}:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})
	}

	err := g.Wait()
	close(results)

	// Matches stopped by a failed collect report the cancel, not the cause.
	if cerr := <-collected; cerr != nil && (err == nil || errors.Is(err, context.Canceled)) {
		return fmt.Errorf("collect: %w", cerr)
	}

	return err
}
