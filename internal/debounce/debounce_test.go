package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescer_SingleFire(t *testing.T) {
	var calls atomic.Int32

	c := NewCoalescer(50*time.Millisecond, func() {
		calls.Add(1)
	})

	if !c.Schedule() {
		t.Fatal("first Schedule should arm the timer")
	}
	for i := 0; i < 10; i++ {
		if c.Schedule() {
			t.Fatal("Schedule while pending should not arm a second timer")
		}
	}

	time.Sleep(120 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if c.IsPending() {
		t.Error("should not be pending after firing")
	}
}

func TestCoalescer_DoesNotRestart(t *testing.T) {
	var fired atomic.Int64
	start := time.Now()

	c := NewCoalescer(80*time.Millisecond, func() {
		fired.Store(int64(time.Since(start)))
	})

	c.Schedule()
	time.Sleep(50 * time.Millisecond)
	c.Schedule()

	time.Sleep(120 * time.Millisecond)

	got := time.Duration(fired.Load())
	if got == 0 {
		t.Fatal("callback did not fire")
	}
	// A restarting timer would fire at ~130ms.
	if got >= 125*time.Millisecond {
		t.Errorf("fired after %v, want the original deadline", got)
	}
}

func TestCoalescer_Reset(t *testing.T) {
	var calls atomic.Int32

	c := NewCoalescer(50*time.Millisecond, func() {
		calls.Add(1)
	})

	c.Schedule()
	c.Reset()

	time.Sleep(100 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
	if !c.Schedule() {
		t.Error("Schedule after Reset should arm a new timer")
	}
	c.Reset()
}

func TestCoalescer_Flush(t *testing.T) {
	var calls atomic.Int32

	c := NewCoalescer(time.Hour, func() {
		calls.Add(1)
	})

	c.Flush()
	if calls.Load() != 0 {
		t.Errorf("Flush without pending call ran the callback")
	}

	c.Schedule()
	c.Flush()
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if c.IsPending() {
		t.Error("should not be pending after Flush")
	}
}

func TestCoalescer_SetDelay(t *testing.T) {
	c := NewCoalescer(-time.Second, func() {})
	if c.Delay() != 0 {
		t.Errorf("Delay() = %v, want 0", c.Delay())
	}
	c.SetDelay(20 * time.Millisecond)
	if c.Delay() != 20*time.Millisecond {
		t.Errorf("Delay() = %v, want 20ms", c.Delay())
	}
}

func TestDebouncer_Basic(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func() {
		calls.Add(1)
	})

	for i := 0; i < 10; i++ {
		d.Call()
	}

	time.Sleep(100 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestDebouncer_SpacedCalls(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(30*time.Millisecond, func() {
		calls.Add(1)
	})

	d.Call()
	time.Sleep(80 * time.Millisecond)
	d.Call()
	time.Sleep(80 * time.Millisecond)

	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func() {
		calls.Add(1)
	})

	d.Call()
	if !d.IsPending() {
		t.Error("should be pending after Call")
	}
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0 (canceled)", calls.Load())
	}
}
