// Package scheduler runs the scan pipeline on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oddscout/oddscout/internal/pipeline"
)

// Scheduler triggers periodic scans.
type Scheduler struct {
	pipe     *pipeline.Pipeline
	interval time.Duration
	opts     pipeline.Options
}

// New creates a scheduler.
func New(pipe *pipeline.Pipeline, interval time.Duration, opts pipeline.Options) *Scheduler {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		pipe:     pipe,
		interval: interval,
		opts:     opts,
	}
}

// Run starts the scan loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial scan...")
	s.pipe.Run(ctx, s.opts)

	fmt.Fprintf(os.Stderr, "scheduler: running (scan every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: scanning...")
			s.pipe.Run(ctx, s.opts)
		}
	}
}
