package app

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownFiresDoneOnce(t *testing.T) {
	var fires int32
	c := newCountdown(20*time.Millisecond, 5*time.Millisecond, time.Now, nil, func() {
		atomic.AddInt32(&fires, 1)
	})
	c.Start()

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&fires); got != 1 {
		t.Fatalf("expected exactly one done fire, got %d", got)
	}
}

func TestCountdownZeroCrossingObservedTwice(t *testing.T) {
	// Two consecutive ticks both see remaining <= 0; only one may fire.
	var fires int32
	c := newCountdown(0, time.Hour, time.Now, nil, func() {
		atomic.AddInt32(&fires, 1)
	})
	c.fire()
	c.fire()
	if got := atomic.LoadInt32(&fires); got != 1 {
		t.Fatalf("expected one fire across two zero observations, got %d", got)
	}
}

func TestCountdownCancelStopsTicks(t *testing.T) {
	var ticks int32
	c := newCountdown(time.Hour, 5*time.Millisecond, time.Now, func(time.Duration) {
		atomic.AddInt32(&ticks, 1)
	}, nil)
	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Cancel()

	seen := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&ticks); got != seen {
		t.Fatalf("ticks continued after cancel: %d -> %d", seen, got)
	}
}

func TestCountdownCancelIdempotent(t *testing.T) {
	c := newCountdown(time.Hour, time.Second, time.Now, nil, nil)
	c.Start()
	c.Cancel()
	c.Cancel() // second cancel must not panic

	never := newCountdown(time.Hour, time.Second, time.Now, nil, nil)
	never.Cancel() // cancelling a countdown that never started is a no-op
}

func TestCountdownCancelSuppressesDone(t *testing.T) {
	var fires int32
	c := newCountdown(0, time.Hour, time.Now, nil, func() {
		atomic.AddInt32(&fires, 1)
	})
	c.Cancel()
	c.fire() // stale tick after cancel
	if got := atomic.LoadInt32(&fires); got != 0 {
		t.Fatalf("done fired after cancel: %d", got)
	}
}

func TestCountdownRemainingClampsAtZero(t *testing.T) {
	past := newCountdown(-time.Minute, time.Second, time.Now, nil, nil)
	if got := past.Remaining(); got != 0 {
		t.Fatalf("expected zero remaining, got %v", got)
	}
}
