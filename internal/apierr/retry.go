package apierr

import (
	"context"
	"fmt"
	"time"
)

// Backoff describes exponential retry behavior. The zero value means a
// single attempt with no delays; negative fields are treated as zero.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Do executes fn up to 1+MaxRetries times, doubling the delay between
// attempts up to MaxDelay. Retries happen only while retryable(err) is true.
// Context cancellation during a wait returns ctx.Err immediately.
func Do[T any](ctx context.Context, b Backoff, fn func() (T, error), retryable func(error) bool) (T, error) {
	var zero T

	if b.MaxRetries < 0 {
		b.MaxRetries = 0
	}
	delay := b.BaseDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	maxDelay := b.MaxDelay
	if maxDelay < delay {
		maxDelay = delay
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= b.MaxRetries || !retryable(err) {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return zero, ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}

	if b.MaxRetries > 0 && retryable(lastErr) {
		return zero, fmt.Errorf("giving up after %d attempts: %w", b.MaxRetries+1, lastErr)
	}
	return zero, lastErr
}
