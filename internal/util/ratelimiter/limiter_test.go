package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		delays   []time.Duration // delays before each Allow() call
		want     []bool          // expected Allow() results
	}{
		{
			name:     "blocked before the first interval elapses",
			interval: 100 * time.Millisecond,
			delays:   []time.Duration{0},
			want:     []bool{false},
		},
		{
			name:     "allowed after the interval",
			interval: 50 * time.Millisecond,
			delays:   []time.Duration{60 * time.Millisecond},
			want:     []bool{true},
		},
		{
			name:     "allowed once per interval",
			interval: 50 * time.Millisecond,
			delays:   []time.Duration{60 * time.Millisecond, 0, 0, 60 * time.Millisecond},
			want:     []bool{true, false, false, true},
		},
		{
			name:     "multiple rapid calls",
			interval: 100 * time.Millisecond,
			delays:   []time.Duration{0, 0, 0, 0},
			want:     []bool{false, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.interval)

			for i, delay := range tt.delays {
				if delay > 0 {
					time.Sleep(delay)
				}

				if got := limiter.Allow(); got != tt.want[i] {
					t.Errorf("call %d: Allow() = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	interval := 50 * time.Millisecond
	limiter := New(interval)

	time.Sleep(60 * time.Millisecond)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	// Launch 100 goroutines simultaneously
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow() {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Only one should be allowed
	if allowedCount != 1 {
		t.Errorf("concurrent calls: %d allowed, want exactly 1", allowedCount)
	}
}
