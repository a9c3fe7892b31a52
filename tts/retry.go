package tts

import (
	"context"
	"fmt"
	"time"
)

// sleepFunc waits for d or until ctx is canceled. Injected so retry
// behavior is testable without real delays.
type sleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext is the production sleepFunc.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryPolicy retries a fallible operation with bounded exponential
// backoff. The policy is stateless and shared across segments; each
// run carries its own attempt counter.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       sleepFunc
}

// backoff returns the delay applied after the given failed attempt,
// numbering from 1: baseDelay * 2^(attempt-1).
func (p retryPolicy) backoff(attempt int) time.Duration {
	return p.baseDelay << uint(attempt-1)
}

// run invokes fn up to maxAttempts times, sleeping between failures.
// It returns on the first success without waiting. After the final
// failure it returns the attempt count and the last error, wrapped.
func (p retryPolicy) run(ctx context.Context, fn func(attempt int) error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if attempt == p.maxAttempts {
			break
		}
		if err := p.sleep(ctx, p.backoff(attempt)); err != nil {
			return attempt, fmt.Errorf("canceled during backoff: %w", err)
		}
	}
	return p.maxAttempts, fmt.Errorf("after %d attempts: %w", p.maxAttempts, lastErr)
}
