package auth

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogoutTimer_Fires(t *testing.T) {
	timer := NewLogoutTimer()
	fired := make(chan struct{})

	timer.Arm(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestLogoutTimer_RearmCancelsPrevious(t *testing.T) {
	timer := NewLogoutTimer()
	var fires atomic.Int32

	// First deadline far out, second one close: only the second may fire.
	timer.Arm(60*time.Second, func() { fires.Add(1) })
	time.Sleep(10 * time.Millisecond)
	timer.Arm(20*time.Millisecond, func() { fires.Add(1) })

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load(), "re-arming must replace the pending timer, not add one")
}

func TestLogoutTimer_CancelPreventsFire(t *testing.T) {
	timer := NewLogoutTimer()
	var fires atomic.Int32

	timer.Arm(20*time.Millisecond, func() { fires.Add(1) })
	timer.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fires.Load())
	assert.False(t, timer.Armed())
}

func TestLogoutTimer_CancelIdempotent(t *testing.T) {
	timer := NewLogoutTimer()

	timer.Cancel()
	timer.Cancel()

	timer.Arm(10*time.Millisecond, func() {})
	timer.Cancel()
	timer.Cancel()

	assert.False(t, timer.Armed())
}
