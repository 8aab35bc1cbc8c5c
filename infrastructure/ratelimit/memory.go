package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a per-process sliding window limiter
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewMemoryLimiter allows limit attempts per key within window
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	attempts := l.entries[key]
	kept := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= l.limit {
		l.entries[key] = kept
		return false, kept[0].Add(l.window).Sub(now), nil
	}

	l.entries[key] = append(kept, now)
	return true, 0, nil
}
