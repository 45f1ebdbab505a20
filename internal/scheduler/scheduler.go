package scheduler

import (
	"context"
	"errors"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx is done.
// Tasks run in place, never concurrently with themselves; a task that
// reports it was skipped (via errors it chooses to log itself) simply waits
// for the next tick.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	runOnce := func() {
		if err := task(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}
