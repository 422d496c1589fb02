package domain

import "sync/atomic"

// CancelLevel is the escalation severity carried by a CancelToken.
type CancelLevel int32

// Cancellation levels. A token's level never decreases.
const (
	LevelNone     CancelLevel = 0
	LevelGraceful CancelLevel = 1
	LevelForce    CancelLevel = 2
)

// CancelToken is the run-wide cancellation flag. The signal watchdog is
// its writer (the scheduler may also escalate on an internal fatal error);
// every download task reads it between chunks. Level reads are single
// atomic loads, cheap enough to perform once per chunk.
type CancelToken struct {
	level    atomic.Int32
	graceful chan struct{}
	force    chan struct{}
}

// NewCancelToken returns a token at LevelNone.
func NewCancelToken() *CancelToken {
	return &CancelToken{
		graceful: make(chan struct{}),
		force:    make(chan struct{}),
	}
}

// Level returns the current escalation level.
func (t *CancelToken) Level() CancelLevel {
	return CancelLevel(t.level.Load())
}

// Cancelled reports whether graceful cancellation (or worse) has been
// requested.
func (t *CancelToken) Cancelled() bool {
	return t.Level() >= LevelGraceful
}

// Graceful returns a channel that is closed once the token reaches
// LevelGraceful. The close may trail the level store by an instant;
// Level is the authoritative read.
func (t *CancelToken) Graceful() <-chan struct{} {
	return t.graceful
}

// Force returns a channel that is closed once the token reaches
// LevelForce.
func (t *CancelToken) Force() <-chan struct{} {
	return t.force
}

// Escalate raises the token to the given level. Lower or equal levels are
// no-ops, so the level is monotonic no matter how callers interleave.
// Each level boundary is crossed by exactly one caller, which closes the
// corresponding channel.
func (t *CancelToken) Escalate(level CancelLevel) {
	for {
		cur := CancelLevel(t.level.Load())
		if cur >= level {
			return
		}
		if t.level.CompareAndSwap(int32(cur), int32(level)) {
			if cur < LevelGraceful && level >= LevelGraceful {
				close(t.graceful)
			}
			if cur < LevelForce && level >= LevelForce {
				close(t.force)
			}
			return
		}
	}
}
