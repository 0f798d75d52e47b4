package retry

import (
	"context"
	"time"
)

// Policy bounds how often an operation may be attempted and how the
// attempts are spaced. Attempt numbers start at 1.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// Exponential doubles the delay on every attempt: base, 2*base, 4*base, ...
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// Linear grows the delay by a fixed step: step, 2*step, 3*step, ...
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return step * time.Duration(attempt)
	}
}

// Sleeper blocks for a duration or until the context is done. It is
// injected into anything that backs off, so tests run without real delays.
type Sleeper func(ctx context.Context, d time.Duration) error

// Wait is the production Sleeper.
func Wait(ctx context.Context, d time.Duration) error {
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

// NoWait is a Sleeper for tests; it only honors cancellation.
func NoWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
