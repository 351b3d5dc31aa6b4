package game

import (
	"sync"
	"time"
)

// Countdown counts down for a single question, delivering periodic ticks and
// exactly one expiry. An instance is single-use: once expired or cancelled it
// stays inert. Cancellation is carried by an instance-scoped channel, so a
// callback scheduled before Cancel can detect it was invalidated instead of
// relying on timer-handle timing.
type Countdown struct {
	total time.Duration
	tick  time.Duration

	startOnce  sync.Once
	cancelOnce sync.Once
	cancelled  chan struct{}
}

// NewCountdown prepares a countdown of the given total duration that ticks at
// the given interval. Nothing runs until Start is called.
func NewCountdown(total, tick time.Duration) *Countdown {
	return &Countdown{
		total:     total,
		tick:      tick,
		cancelled: make(chan struct{}),
	}
}

// Start begins the countdown. onTick receives the remaining time at each tick
// boundary; onExpire fires at most once, when the countdown reaches zero.
// Start is one-shot; repeated calls do nothing.
func (c *Countdown) Start(onTick func(remaining time.Duration), onExpire func()) {
	c.startOnce.Do(func() {
		go c.run(onTick, onExpire)
	})
}

func (c *Countdown) run(onTick func(remaining time.Duration), onExpire func()) {
	deadline := time.Now().Add(c.total)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	expiry := time.NewTimer(c.total)
	defer expiry.Stop()

	for {
		select {
		case <-c.cancelled:
			return
		case <-ticker.C:
			if c.Cancelled() {
				return
			}
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			onTick(remaining)
		case <-expiry.C:
			if c.Cancelled() {
				return
			}
			onExpire()
			return
		}
	}
}

// Cancel stops the countdown. Idempotent: cancelling an already-cancelled or
// already-expired instance is a no-op. A tick or expiry racing with Cancel may
// still be in flight; consumers guard against that with Cancelled and their
// own state checks.
func (c *Countdown) Cancel() {
	c.cancelOnce.Do(func() {
		close(c.cancelled)
	})
}

// Cancelled reports whether Cancel has been called.
func (c *Countdown) Cancelled() bool {
	select {
	case <-c.cancelled:
		return true
	default:
		return false
	}
}
