package ratelimit

import (
	"context"
	"time"
)

// Limiter enforces a minimum spacing between consecutive outbound requests.
//
// A Limiter is exclusively owned by the goroutine that created it: each
// source pipeline gets its own instance, so no locking is needed. Callers
// that do share one serialize FIFO through their own call order.
type Limiter struct {
	last     time.Time
	minDelay time.Duration

	// now and sleep are swappable in tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New builds a Limiter whose first Wait returns immediately.
func New(minDelay time.Duration) *Limiter {
	return &Limiter{
		last:     time.Now().Add(-minDelay),
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until at least the configured minimum delay has elapsed since
// the last request this limiter authorized, then records the new
// authorization instant. A long idle period means no wait at all, never a
// negative one. Returns early with ctx.Err() on cancellation, without
// recording an authorization.
func (l *Limiter) Wait(ctx context.Context) error {
	elapsed := l.now().Sub(l.last)
	if elapsed < l.minDelay {
		if err := l.sleep(ctx, l.minDelay-elapsed); err != nil {
			return err
		}
	}
	l.last = l.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
