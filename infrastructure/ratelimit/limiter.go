// Package ratelimit throttles how often a member may place wagers.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether another event for key fits in the current window
type Limiter interface {
	// Allow records an attempt and reports whether it is permitted. When it
	// is not, retryAfter says when the oldest attempt leaves the window.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Unlimited never throttles. Used when the limit is configured as 0.
type Unlimited struct{}

func (Unlimited) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	return true, 0, nil
}
