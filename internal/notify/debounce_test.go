package notify

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var total, last int64

	for i := int64(1); i <= 5; i++ {
		i := i
		d.Trigger(func() {
			atomic.AddInt64(&total, 1)
			atomic.StoreInt64(&last, i)
		})
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)

	if got := atomic.LoadInt64(&total); got != 1 {
		t.Fatalf("want exactly 1 invocation, got %d", got)
	}
	if got := atomic.LoadInt64(&last); got != 5 {
		t.Fatalf("want the last trigger's function to run, got trigger %d", got)
	}
}

func TestDebouncerTimerRestarts(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)
	var calls int64

	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	time.Sleep(25 * time.Millisecond)
	// Retrigger inside the window: the clock restarts rather than stacking.
	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	time.Sleep(25 * time.Millisecond)

	if got := atomic.LoadInt64(&calls); got != 0 {
		t.Fatalf("fired before the restarted window elapsed: %d calls", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("want 1 call after the window, got %d", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls int64

	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt64(&calls); got != 0 {
		t.Fatalf("stopped debouncer still fired %d times", got)
	}
}
