// Package watch provides change watchers over reactive sources.
//
// A watcher subscribes to a Signal or Memo, compares each delivered value
// against the previous one, and invokes a callback with (new, old) when the
// value actually changed. Watchers never fire on the initial value unless
// the Immediate option is set.
//
// NewIgnorable builds a watcher whose callback can be suppressed for the
// duration of a block, which is how the history tracker applies undo/redo
// without re-recording its own writes.
package watch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/reago-dev/reago/pkg/reago"
)

// Observable is a readable reactive source that notifies subscribers on
// change. reago.Signal and reago.Memo both satisfy it.
type Observable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

// config holds watcher options. Equality is stored type-erased so options
// stay free of type parameters at call sites.
type config struct {
	immediate bool
	deep      bool
	equals    any
	owner     *reago.Owner
}

// Option configures a watcher.
type Option func(*config)

// Immediate fires the callback once right away with the current value as
// newValue and T's zero value as oldValue.
func Immediate() Option {
	return func(c *config) {
		c.immediate = true
	}
}

// Deep compares values with reago.DeepEqual instead of the default
// reago.ShallowEqual. Use it when a rebuilt slice, map, or pointee with the
// same contents should not count as a change.
func Deep() Option {
	return func(c *config) {
		c.deep = true
	}
}

// WithEquals sets a custom change check. The function's type must match the
// watched value type.
func WithEquals[T any](fn func(T, T) bool) Option {
	return func(c *config) {
		c.equals = fn
	}
}

// Scoped ties the watcher's lifetime to the owner: disposing the owner
// stops the watcher.
func Scoped(owner *reago.Owner) Option {
	return func(c *config) {
		c.owner = owner
	}
}

// Handle controls a running watcher.
type Handle struct {
	stop    func()
	stopped atomic.Bool
}

// Stop detaches the watcher from its source. Idempotent.
func (h *Handle) Stop() {
	if h.stopped.Swap(true) {
		return
	}
	h.stop()
}

// watcher carries the comparison state shared by New and NewIgnorable.
type watcher[T any] struct {
	mu     sync.Mutex
	prev   T
	cb     func(newValue, oldValue T)
	equals func(T, T) bool

	// ignoring suppresses the callback while set. nil for plain watchers.
	ignoring *atomic.Bool
}

// onNotify runs on every source notification: it updates the stored
// previous value unconditionally, then fires the callback if the value
// changed and the watcher is not suppressed.
func (w *watcher[T]) onNotify(next T) {
	w.mu.Lock()
	old := w.prev
	w.prev = next
	changed := !w.equals(old, next)
	suppressed := w.ignoring != nil && w.ignoring.Load()
	w.mu.Unlock()

	if changed && !suppressed {
		w.cb(next, old)
	}
}

// New watches source and invokes cb(newValue, oldValue) whenever the
// source's value changes. The current value is recorded as the baseline at
// construction; without Immediate the first change is the first callback.
//
// oldValue is T's zero value only for the Immediate initial call.
func New[T any](source Observable[T], cb func(newValue, oldValue T), opts ...Option) *Handle {
	return build(source, cb, nil, opts)
}

// build wires a watcher to its source and owner. The suppression flag is
// nil for plain watchers.
func build[T any](source Observable[T], cb func(newValue, oldValue T), ignoring *atomic.Bool, opts []Option) *Handle {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &watcher[T]{
		cb:       cb,
		equals:   resolveEquals[T](cfg),
		ignoring: ignoring,
	}

	// Baseline: the current value arms the watcher without firing
	w.prev = source.Get()

	if cfg.immediate {
		var zero T
		cb(w.prev, zero)
	}

	unsubscribe := source.Subscribe(w.onNotify)

	handle := &Handle{stop: unsubscribe}
	if cfg.owner != nil {
		cfg.owner.OnCleanup(handle.Stop)
	}

	return handle
}

// resolveEquals picks the change check: custom > Deep > default.
func resolveEquals[T any](cfg config) func(T, T) bool {
	if cfg.equals != nil {
		fn, ok := cfg.equals.(func(T, T) bool)
		if !ok {
			panic(fmt.Sprintf("watch: WithEquals function is %T, want func(%T, %T) bool",
				cfg.equals, *new(T), *new(T)))
		}
		return fn
	}
	if cfg.deep {
		return reago.DeepEqual[T]
	}
	return reago.ShallowEqual[T]
}
