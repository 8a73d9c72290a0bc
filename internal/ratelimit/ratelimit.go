// Package ratelimit throttles per-session frame processing. A live stream
// cares about recency, not completeness, so frames arriving faster than the
// configured rate are silently dropped rather than queued.
package ratelimit

import (
	"sync"
	"time"
)

// FrameLimiter enforces a minimum interval between processed frames. It is
// safe for concurrent use, although a session normally drives it from a
// single goroutine.
type FrameLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewFrameLimiter creates a limiter allowing at most maxPerSecond frames.
// A non-positive rate disables limiting.
func NewFrameLimiter(maxPerSecond float64) *FrameLimiter {
	var interval time.Duration
	if maxPerSecond > 0 {
		interval = time.Duration(float64(time.Second) / maxPerSecond)
	}
	return &FrameLimiter{
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether a frame arriving now should be processed. The first
// frame is always allowed.
func (l *FrameLimiter) Allow() bool {
	if l.interval <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}

// Reset forgets the last processed frame, so the next Allow succeeds.
func (l *FrameLimiter) Reset() {
	l.mu.Lock()
	l.last = time.Time{}
	l.mu.Unlock()
}
