// Package limiter provides debounced and throttled wrappers around
// functions of one argument.
//
// The wait interval for both wrappers is a reago.Source, so it can be a
// fixed duration, an accessor, or a Ref cell. It is resolved each time a
// timer is armed, which means interval changes apply to the next scheduled
// run without rebuilding the wrapper.
package limiter

import (
	"sync"
	"time"

	"github.com/reago-dev/reago/pkg/reago"
)

// Debounced delays invocations of fn until calls stop arriving for a full
// wait interval. Each Call cancels the previously scheduled run and
// re-schedules with the newest argument, so a burst of calls collapses
// into one trailing invocation carrying the last argument.
type Debounced[T any] struct {
	fn   func(T)
	wait reago.Source[time.Duration]

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	lastArg T
	stopped bool
}

// NewDebounced creates a debounced wrapper around fn.
func NewDebounced[T any](fn func(T), wait reago.Source[time.Duration]) *Debounced[T] {
	return &Debounced[T]{fn: fn, wait: wait}
}

// Call schedules fn with arg after the wait interval, cancelling any
// previously scheduled run. The interval is resolved now, at schedule time.
func (d *Debounced[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.lastArg = arg
	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait.Get(), d.fire)
}

// fire runs the pending invocation. A Call that re-armed the timer after
// this one was already scheduled wins: the newest argument is used and the
// later timer finds nothing pending.
func (d *Debounced[T]) fire() {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	arg := d.lastArg
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops the pending invocation, if any. Later Calls schedule again.
func (d *Debounced[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}

// Flush runs the pending invocation immediately instead of waiting out the
// interval. No-op when nothing is pending.
func (d *Debounced[T]) Flush() {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	arg := d.lastArg
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
}

// Pending reports whether an invocation is scheduled.
func (d *Debounced[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending invocation and makes the wrapper inert. Later
// Calls do nothing. Idempotent.
func (d *Debounced[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.stopped = true
}
