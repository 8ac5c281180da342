// Package loadgen drives load against the requesting and delivering services.
package loadgen

import (
	"context"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
)

// Stats of a load run
type Stats struct {
	Succeeded int64
	Failed    int64
}

type counters struct {
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{Succeeded: c.succeeded.Load(), Failed: c.failed.Load()}
}

// runBounded calls job(i) for i in [0, n) with at most procs jobs in flight.
// Job errors are counted, not returned.
func runBounded(
	ctx context.Context,
	n int,
	procs int64,
	bar *progressbar.ProgressBar,
	job func(ctx context.Context, i int) error) (Stats, error) {

	if procs <= 0 {
		procs = 1
	}
	var c counters
	sem := semaphore.NewWeighted(procs)
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			_ = group.Wait()
			return c.stats(), err
		}
		i := i
		group.Go(func() error {
			defer sem.Release(1)
			if err := job(ctx, i); err != nil {
				logger.Log.Info("job failed", zap.Int("job", i), zap.Error(err))
				c.failed.Add(1)
			} else {
				c.succeeded.Add(1)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	return c.stats(), nil
}
