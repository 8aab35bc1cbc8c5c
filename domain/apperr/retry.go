package apperr

import (
	"context"
	"errors"
	"math"
	"time"
)

const (
	MaxRetries        = 3
	InitialBackoff    = 50 * time.Millisecond
	MaxBackoff        = 2 * time.Second
	BackoffMultiplier = 2.0
)

// WithRetry runs fn until it succeeds, fails with a non-retryable error, or
// MaxRetries retries are spent.
func WithRetry(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}

		err = fn()
		if err == nil || !IsRetryable(err) || attempt == MaxRetries {
			return err
		}

		timer := time.NewTimer(backoffDuration(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}

	return err
}

// IsRetryable reports whether err is an AppError flagged as retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Retryable
	}
	return false
}

func backoffDuration(attempt int) time.Duration {
	backoff := time.Duration(float64(InitialBackoff) * math.Pow(BackoffMultiplier, float64(attempt-1)))
	if backoff > MaxBackoff {
		return MaxBackoff
	}
	return backoff
}
