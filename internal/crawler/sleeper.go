package crawler

import (
	"context"
	"time"
)

// Sleeper abstracts the pacing delays between batches so tests can run
// the scheduler against a fake clock.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// clockSleeper sleeps on the real clock, interruptible by the context.
type clockSleeper struct{}

func (clockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
