package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a feed download failure as transient, such as a
// network error or a 5xx answer. [Retry] tries those again; a 404 for a
// deleted calendar fails at once.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay between attempts.
// [Fetcher] wraps each conditional GET in it; the fetcher's stale-copy
// fallback only applies once Retry gives up. Cancelling ctx aborts the wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
