package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives a Limiter without real sleeping: sleeps are recorded and
// advance the clock.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) wire(l *Limiter) {
	l.now = func() time.Time { return c.now }
	l.sleep = func(_ context.Context, d time.Duration) error {
		c.sleeps = append(c.sleeps, d)
		c.now = c.now.Add(d)
		return nil
	}
}

func TestWait(t *testing.T) {
	const minDelay = time.Second

	t.Run("first call passes immediately", func(t *testing.T) {
		l := New(minDelay)
		clock := &fakeClock{now: time.Now()}
		l.last = clock.now.Add(-minDelay)
		clock.wire(l)

		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		if len(clock.sleeps) != 0 {
			t.Errorf("slept %v on first call, want no sleep", clock.sleeps)
		}
	})

	t.Run("zero elapsed applies full delay", func(t *testing.T) {
		l := New(minDelay)
		clock := &fakeClock{now: time.Now()}
		l.last = clock.now.Add(-minDelay)
		clock.wire(l)

		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		// Same instant again: the full delay must be applied.
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		if len(clock.sleeps) != 1 || clock.sleeps[0] != minDelay {
			t.Errorf("sleeps = %v, want [%v]", clock.sleeps, minDelay)
		}
	})

	t.Run("long idle means no wait", func(t *testing.T) {
		l := New(minDelay)
		clock := &fakeClock{now: time.Now()}
		l.last = clock.now.Add(-minDelay)
		clock.wire(l)

		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		clock.now = clock.now.Add(10 * minDelay)
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		if len(clock.sleeps) != 0 {
			t.Errorf("slept %v after long idle, want no sleep", clock.sleeps)
		}
	})

	t.Run("cancellation surfaces and skips authorization", func(t *testing.T) {
		l := New(minDelay)
		l.last = time.Now() // force a pending delay
		before := l.last

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := l.Wait(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Wait() error = %v, want context.Canceled", err)
		}
		if !l.last.Equal(before) {
			t.Error("authorization instant moved despite cancellation")
		}
	})
}
