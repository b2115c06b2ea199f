package watch

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of Trigger calls into a single call of fn, made delay
// after the last Trigger.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	stopped    bool
}

// NewDebouncer creates a Debouncer calling fn.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the delay. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.timer = time.AfterFunc(d.delay, func() { d.fire(generation) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any scheduled call; later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs fn unless a newer Trigger or Stop superseded this timer.
func (d *Debouncer) fire(generation uint64) {
	d.mu.Lock()
	if d.stopped || generation != d.generation {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
