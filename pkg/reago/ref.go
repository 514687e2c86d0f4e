package reago

import "sync"

// Ref holds a mutable reference to a value. It is the plain cell of the
// reactive system: reads and writes go through accessor methods, and no
// notifications are produced. Use a Signal when subscribers need to know
// about changes.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// NewRef creates a new Ref with the given initial value.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}

// Update atomically reads and replaces the ref's value.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = fn(r.value)
}
