package discovery

import (
	"sync"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime clock.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delivers only the last value scheduled within a quiet period.
// At most one callback is pending at any time.
type Debouncer struct {
	scheduler Scheduler
	deliver   func(string)

	mu         sync.Mutex
	timer      Timer
	generation uint64
	pending    string
	hasPending bool
}

// NewDebouncer builds a debouncer that hands settled values to deliver.
func NewDebouncer(scheduler Scheduler, deliver func(string)) *Debouncer {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Debouncer{scheduler: scheduler, deliver: deliver}
}

// Schedule replaces any pending value with value and restarts the timer.
func (d *Debouncer) Schedule(value string, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.pending = value
	d.hasPending = true
	d.timer = d.scheduler.AfterFunc(delay, func() { d.fire(generation) })
}

// CancelPending drops the pending value, if any.
func (d *Debouncer) CancelPending() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush delivers the pending value immediately. It reports whether there was
// one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.hasPending {
		d.mu.Unlock()
		return false
	}
	value := d.pending
	d.cancelLocked()
	d.mu.Unlock()
	d.deliver(value)
	return true
}

// Pending reports whether a value is waiting to settle.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// A timer that already fired is neutralized by the generation bump.
	d.generation++
	d.pending = ""
	d.hasPending = false
}

func (d *Debouncer) fire(generation uint64) {
	d.mu.Lock()
	if generation != d.generation || !d.hasPending {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.pending = ""
	d.hasPending = false
	d.mu.Unlock()
	d.deliver(value)
}
