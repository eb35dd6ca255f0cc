package scheduler

import (
	"context"
	"time"
)

// AlignedDelay returns the time until the next wall-clock boundary that
// is a multiple of interval, so cycles land on aligned instants rather
// than a fixed offset from "now".
func AlignedDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}

	step := int64(interval / time.Second)
	if step <= 0 {
		step = 1
	}
	next := (now.Unix()/step + 1) * step
	return time.Unix(next, 0).Sub(now)
}

// Wait sleeps for the given delay, waking early when the context is
// cancelled. The sleep between cycles is the only cancellation point of
// the run loop.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
