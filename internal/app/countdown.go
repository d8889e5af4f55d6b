package app

import (
	"sync"
	"time"
)

// countdown is a cancellable repeating timer ticking toward a fixed deadline.
// onTick receives the remaining time on every tick; onDone fires exactly once
// when the deadline is crossed, after which the loop stops. Callbacks run
// outside the countdown lock, so they may call Cancel without deadlocking.
type countdown struct {
	deadline time.Time
	interval time.Duration
	now      func() time.Time
	onTick   func(remaining time.Duration)
	onDone   func()

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
	done    bool
}

func newCountdown(d time.Duration, interval time.Duration, now func() time.Time, onTick func(time.Duration), onDone func()) *countdown {
	if now == nil {
		now = time.Now
	}
	return &countdown{
		deadline: now().Add(d),
		interval: interval,
		now:      now,
		onTick:   onTick,
		onDone:   onDone,
		stop:     make(chan struct{}),
	}
}

// Start launches the tick loop. Starting an already-cancelled countdown is a no-op.
func (c *countdown) Start() {
	go c.loop()
}

func (c *countdown) loop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if c.fire() {
				return
			}
		}
	}
}

// fire runs a single tick and reports whether the loop should exit.
// The done flag is flipped under the lock before onDone runs, so two ticks
// observing the same zero-crossing cannot both fire the transition.
func (c *countdown) fire() bool {
	c.mu.Lock()
	if c.stopped || c.done {
		c.mu.Unlock()
		return true
	}
	remaining := c.deadline.Sub(c.now())
	if remaining <= 0 {
		c.done = true
		c.mu.Unlock()
		if c.onDone != nil {
			c.onDone()
		}
		return true
	}
	c.mu.Unlock()
	if c.onTick != nil {
		c.onTick(remaining)
	}
	return false
}

// Remaining returns the time left until the deadline, clamped at zero.
func (c *countdown) Remaining() time.Duration {
	if left := c.deadline.Sub(c.now()); left > 0 {
		return left
	}
	return 0
}

// Cancel stops the loop. It is idempotent: cancelling twice, or cancelling a
// countdown that never started, is a no-op.
func (c *countdown) Cancel() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stop)
	}
	c.mu.Unlock()
}
