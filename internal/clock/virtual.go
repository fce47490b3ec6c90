package clock

import (
	"sync"
	"time"
)

// VirtualClock is a controllable clock for deterministic timing tests.
// Waiters registered with After fire when Advance or Set moves the clock past
// their deadline. In auto-advance mode After moves the clock forward by d
// itself and fires at once, so code that sleeps runs instantly while still
// observing the exact virtual time it would have slept to.
//
// Thread-safe for concurrent use.
type VirtualClock struct {
	mu          sync.Mutex
	current     time.Time
	waiters     []waiter
	autoAdvance bool
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtualClock creates a VirtualClock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{
		current: start,
	}
}

// NewAutoClock creates a VirtualClock in auto-advance mode.
func NewAutoClock(start time.Time) *VirtualClock {
	return &VirtualClock{
		current:     start,
		autoAdvance: true,
	}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Since returns the virtual duration elapsed since t.
func (c *VirtualClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Sub(t)
}

// After returns a channel that receives the virtual time once the clock has
// advanced past the current time plus d.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)

	if d <= 0 {
		ch <- c.current
		return ch
	}

	if c.autoAdvance {
		c.current = c.current.Add(d)
		c.drainWaiters()
		ch <- c.current
		return ch
	}

	c.waiters = append(c.waiters, waiter{
		deadline: c.current.Add(d),
		ch:       ch,
	})
	return ch
}

// Advance moves the virtual clock forward by the given duration.
// Panics if d is negative.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	c.drainWaiters()
}

// Set sets the virtual clock to an exact time.
// Panics if t is before the current time.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Before(c.current) {
		panic("clock: cannot set time to the past")
	}

	c.current = t
	c.drainWaiters()
}

// pending returns the number of waiters that have not fired yet.
func (c *VirtualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// drainWaiters fires all waiters whose deadline is at or before the current time.
// Must be called with c.mu held.
func (c *VirtualClock) drainWaiters() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.current) {
			w.ch <- c.current
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}
