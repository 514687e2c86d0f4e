package watch

import "sync/atomic"

// Ignorable is a watcher whose callback can be suppressed for the duration
// of a block. Writes performed inside IgnoreUpdates still update the
// watcher's previous-value tracking, so the next unsuppressed change is
// compared against the value the block left behind.
type Ignorable[T any] struct {
	handle   *Handle
	ignoring atomic.Bool
}

// NewIgnorable creates a suppressible watcher over source. Options are the
// same as for New.
func NewIgnorable[T any](source Observable[T], cb func(newValue, oldValue T), opts ...Option) *Ignorable[T] {
	ig := &Ignorable[T]{}
	ig.handle = build(source, cb, &ig.ignoring, opts)
	return ig
}

// IgnoreUpdates runs block with the callback suppressed. The suppression is
// cleared on every exit path, including a panic out of block, and nested
// calls stay suppressed until the outermost one returns.
func (ig *Ignorable[T]) IgnoreUpdates(block func()) {
	was := ig.ignoring.Swap(true)
	defer ig.ignoring.Store(was)
	block()
}

// Stop detaches the watcher from its source. Idempotent.
func (ig *Ignorable[T]) Stop() {
	ig.handle.Stop()
}
