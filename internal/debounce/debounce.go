// Package debounce provides the timers that pace recomputation.
//
// A Coalescer fires once after a fixed delay no matter how many times it is
// scheduled while pending. A Debouncer restarts its delay on every call and
// fires after the last one.
//
// All methods are safe for concurrent use. Callbacks are never run while a
// lock is held.
package debounce

import (
	"sync"
	"time"
)

// Coalescer runs a callback once per burst of Schedule calls.
//
// The first Schedule arms a timer. Further calls while the timer is pending
// are absorbed, and the callback runs when the original timer fires. The
// callback is expected to read the latest state itself.
type Coalescer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // invalidates timers stopped too late
	callback func()
}

// NewCoalescer creates a coalescer with the given delay. A delay of zero
// still defers the callback to the timer goroutine.
func NewCoalescer(delay time.Duration, callback func()) *Coalescer {
	if delay < 0 {
		delay = 0
	}
	return &Coalescer{
		delay:    delay,
		callback: callback,
	}
}

// Schedule arms the timer unless one is already pending.
// It reports whether a new timer was armed.
func (c *Coalescer) Schedule() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return false
	}

	c.pending = true
	c.seq++
	currentSeq := c.seq

	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		if c.pending && c.seq == currentSeq && c.callback != nil {
			c.pending = false
			c.timer = nil
			c.mu.Unlock()
			c.callback()
			return
		}
		c.mu.Unlock()
	})
	return true
}

// Flush runs a pending callback now and cancels its timer.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++

	if c.pending && c.callback != nil {
		c.pending = false
		c.mu.Unlock()
		c.callback()
		return
	}
	c.mu.Unlock()
}

// Reset cancels any pending callback.
func (c *Coalescer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.pending = false
}

// SetDelay changes the delay used by the next Schedule.
func (c *Coalescer) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	c.mu.Lock()
	c.delay = delay
	c.mu.Unlock()
}

// Delay returns the current delay.
func (c *Coalescer) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// IsPending reports whether a callback is scheduled.
func (c *Coalescer) IsPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Debouncer groups rapid successive calls into a single call after a quiet
// period.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64
	callback func()
}

// NewDebouncer creates a debouncer. The callback runs after no new calls
// have been made for at least delay.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback, restarting the quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
		} else {
			d.mu.Unlock()
		}
	})
}

// Cancel cancels any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending returns true if there's a pending call.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
