package retry

import (
	"context"
	"time"
)

// Hook is called after a failed attempt that will be retried.
type Hook func(attempt int, delay time.Duration, err error)

// Do executes fn with retry logic.
// It respects context cancellation during backoff waits.
// Returns the result on success, or the last error if all attempts fail.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithHook(ctx, cfg, nil, fn)
}

// DoWithHook is like Do but calls hook before each backoff wait.
// Pass nil for hook to disable notification (equivalent to Do).
func DoWithHook[T any](ctx context.Context, cfg Config, hook Hook, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < attempts-1 {
			delay := cfg.Delay(attempt)
			if hook != nil {
				hook(attempt+1, delay, err)
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
