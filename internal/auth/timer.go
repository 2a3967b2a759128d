package auth

import (
	"sync"
	"time"
)

// LogoutTimer fires a single expiry callback after a configured duration.
// At most one callback is pending at any time: arming a new timer cancels
// the previous one.
type LogoutTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewLogoutTimer creates an unarmed timer.
func NewLogoutTimer() *LogoutTimer {
	return &LogoutTimer{}
}

// Arm schedules fn to run after d, cancelling any previously armed timer.
func (t *LogoutTimer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fn)
}

// Cancel stops the pending timer if any. Idempotent.
func (t *LogoutTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Armed reports whether a callback is currently pending.
func (t *LogoutTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
