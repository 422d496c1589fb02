package ratelimiter

import (
	"sync"
	"time"
)

// Limiter provides simple time-based rate limiting.
// It allows one action per interval and is safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	interval    time.Duration
	lastAllowed time.Time
}

// New creates a new rate limiter with the specified interval. The
// interval starts at creation, so the first action is allowed once a
// full interval has passed.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval:    interval,
		lastAllowed: time.Now(),
	}
}

// Allow reports whether an action may run now. When it may, the call is
// recorded as the last allowed action.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastAllowed) >= l.interval {
		l.lastAllowed = now
		return true
	}

	return false
}
