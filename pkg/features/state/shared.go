package state

import (
	"sync"
	"sync/atomic"

	"github.com/reago-dev/reago/pkg/reago"
)

// Shared reference-counts a factory-built value.
//
// The first Acquire runs the factory inside a fresh ownership scope and
// caches the result; later Acquires share it. Each release decrements the
// count, and when it reaches zero the scope is disposed (running its
// cleanups) and the cached value discarded, so the next Acquire rebuilds
// from scratch.
type Shared[T any] struct {
	factory func(*reago.Owner) T

	mu    sync.Mutex
	refs  int
	owner *reago.Owner
	value T
}

// NewShared declares a shared value. The factory does not run until the
// first Acquire.
func NewShared[T any](factory func(*reago.Owner) T) *Shared[T] {
	return &Shared[T]{factory: factory}
}

// Acquire returns the shared value and a release handle. Release is
// idempotent; calling it more than once decrements only once.
func (s *Shared[T]) Acquire() (T, func()) {
	s.mu.Lock()
	if s.refs == 0 {
		s.owner = reago.NewOwner(nil)
		s.value = s.factory(s.owner)
	}
	s.refs++
	value := s.value
	s.mu.Unlock()

	var released atomic.Bool
	release := func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		s.release()
	}
	return value, release
}

// release drops one reference, tearing the scope down at zero.
func (s *Shared[T]) release() {
	s.mu.Lock()
	s.refs--
	var owner *reago.Owner
	if s.refs == 0 {
		owner = s.owner
		s.owner = nil
		var zero T
		s.value = zero
	}
	s.mu.Unlock()

	// Dispose outside the lock: cleanups may call back into the wrapper
	if owner != nil {
		owner.Dispose()
	}
}

// Refs reports the current reference count.
func (s *Shared[T]) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}
