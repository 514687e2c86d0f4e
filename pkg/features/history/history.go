// Package history records a signal's values into an undoable, redoable
// timeline.
//
// Every committed change appends a structural snapshot, so later mutation
// of the live value cannot corrupt recorded entries. Undo and redo assign
// a fresh copy of a past snapshot back into the signal without recording
// the assignment as a new entry.
//
// Example:
//
//	doc := reago.NewSignal("draft")
//	h := history.Track(doc)
//	defer h.Stop()
//
//	doc.Set("draft v2")
//	h.Undo() // doc is "draft" again
//	h.Redo() // back to "draft v2"
package history

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reago-dev/reago/pkg/features/watch"
	"github.com/reago-dev/reago/pkg/reago"
)

// Record is one entry in the timeline.
type Record[T any] struct {
	Value     T
	Timestamp time.Time
}

type config struct {
	capacity int
	clone    any
	logger   *slog.Logger
}

// Option configures a tracker.
type Option func(*config)

// WithCapacity bounds the timeline to n entries, dropping the oldest when
// it overflows. Zero means unlimited.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithClone replaces the default JSON round-trip snapshot with a custom
// copy function. The function type must match the tracked value type.
func WithClone[T any](fn func(T) (T, error)) Option {
	return func(c *config) {
		c.clone = fn
	}
}

// WithLogger sets the logger for snapshot failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// History tracks a signal's committed values.
//
// The timeline always holds at least one entry; entry 0 is the value at
// Track time. The index points at the entry matching the signal's current
// value, moving back on Undo and forward on Redo. A change committed while
// the index sits before the end discards the entries beyond it.
type History[T any] struct {
	signal  *reago.Signal[T]
	watcher *watch.Ignorable[T]
	clone   func(T) (T, error)
	logger  *slog.Logger

	mu       sync.Mutex
	entries  []Record[T]
	index    int
	capacity int
}

// Track starts recording signal into a new timeline.
func Track[T any](signal *reago.Signal[T], opts ...Option) *History[T] {
	cfg := config{
		logger: slog.Default().With("component", "history"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clone := reago.Clone[T]
	if cfg.clone != nil {
		typed, ok := cfg.clone.(func(T) (T, error))
		if !ok {
			panic(fmt.Sprintf("history: WithClone function type %T does not match tracked type", cfg.clone))
		}
		clone = typed
	}

	h := &History[T]{
		signal:   signal,
		clone:    clone,
		logger:   cfg.logger,
		capacity: cfg.capacity,
	}
	h.entries = []Record[T]{{Value: h.snapshot(signal.Get()), Timestamp: time.Now()}}

	h.watcher = watch.NewIgnorable(signal, func(value, _ T) {
		h.record(value)
	}, watch.Deep())

	return h
}

// record appends a snapshot after a committed change.
func (h *History[T]) record(value T) {
	snapshot := h.snapshot(value)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.index+1], Record[T]{Value: snapshot, Timestamp: time.Now()})
	h.index = len(h.entries) - 1

	if h.capacity > 0 && len(h.entries) > h.capacity {
		drop := len(h.entries) - h.capacity
		trimmed := make([]Record[T], h.capacity)
		copy(trimmed, h.entries[drop:])
		h.entries = trimmed
		h.index -= drop
	}
}

// Undo steps the signal back to the previous entry. Reports whether a
// step happened; false means the index is already at the oldest entry.
func (h *History[T]) Undo() bool {
	h.mu.Lock()
	if h.index == 0 {
		h.mu.Unlock()
		return false
	}
	h.index--
	stored := h.entries[h.index].Value
	h.mu.Unlock()

	h.apply(stored)
	return true
}

// Redo steps the signal forward to the next entry. Reports whether a step
// happened; false means the index is already at the newest entry.
func (h *History[T]) Redo() bool {
	h.mu.Lock()
	if h.index == len(h.entries)-1 {
		h.mu.Unlock()
		return false
	}
	h.index++
	stored := h.entries[h.index].Value
	h.mu.Unlock()

	h.apply(stored)
	return true
}

// apply assigns a stored value back into the signal without recording it.
// The signal receives a fresh copy so the live value never aliases the
// timeline. Runs outside h.mu: the set fires subscribers synchronously
// and those may call back into the tracker.
func (h *History[T]) apply(stored T) {
	value := h.snapshot(stored)
	h.watcher.IgnoreUpdates(func() {
		h.signal.Set(value)
	})
}

// CanUndo reports whether an older entry exists.
func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanRedo reports whether a newer entry exists.
func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Entries returns a copy of the timeline, oldest first.
func (h *History[T]) Entries() []Record[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record[T], len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of entries.
func (h *History[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index reports the position of the current entry.
func (h *History[T]) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Clear resets the timeline to a single entry holding the signal's
// current value.
func (h *History[T]) Clear() {
	snapshot := h.snapshot(h.signal.Get())

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []Record[T]{{Value: snapshot, Timestamp: time.Now()}}
	h.index = 0
}

// Stop detaches from the signal. The timeline stays readable; Undo and
// Redo keep working against the recorded entries.
func (h *History[T]) Stop() {
	h.watcher.Stop()
}

// snapshot copies value structurally. A failed copy is logged and the
// original stored as-is, which can alias live data.
func (h *History[T]) snapshot(value T) T {
	copied, err := h.clone(value)
	if err != nil {
		h.logger.Warn("snapshot failed, storing original", "error", err)
		return value
	}
	return copied
}
