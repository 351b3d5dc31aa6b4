package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownTicksAndExpiresOnce(t *testing.T) {
	var ticks, expiries atomic.Int32
	done := make(chan struct{})

	c := NewCountdown(50*time.Millisecond, 10*time.Millisecond)
	c.Start(
		func(time.Duration) { ticks.Add(1) },
		func() {
			expiries.Add(1)
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown never expired")
	}

	// Give a stray second expiry every chance to show up.
	time.Sleep(50 * time.Millisecond)
	if got := expiries.Load(); got != 1 {
		t.Fatalf("expected exactly one expiry, got %d", got)
	}
	if ticks.Load() == 0 {
		t.Fatalf("expected at least one tick before expiry")
	}
}

func TestCountdownCancelSuppressesExpiry(t *testing.T) {
	var expiries atomic.Int32

	c := NewCountdown(30*time.Millisecond, 10*time.Millisecond)
	c.Start(
		func(time.Duration) {},
		func() { expiries.Add(1) },
	)
	c.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := expiries.Load(); got != 0 {
		t.Fatalf("expected no expiry after cancel, got %d", got)
	}
}

func TestCountdownCancelIdempotent(t *testing.T) {
	c := NewCountdown(time.Second, 10*time.Millisecond)
	c.Start(func(time.Duration) {}, func() {})

	c.Cancel()
	c.Cancel()
	if !c.Cancelled() {
		t.Fatalf("expected countdown to report cancelled")
	}
}

func TestCountdownTickRemainingNeverNegative(t *testing.T) {
	negatives := make(chan time.Duration, 16)
	done := make(chan struct{})

	c := NewCountdown(30*time.Millisecond, 5*time.Millisecond)
	c.Start(
		func(remaining time.Duration) {
			if remaining < 0 {
				negatives <- remaining
			}
		},
		func() { close(done) },
	)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown never expired")
	}
	select {
	case d := <-negatives:
		t.Fatalf("tick reported negative remaining %v", d)
	default:
	}
}
