package reago

import (
	"sync"
	"sync/atomic"
)

// Dependency is a reactive source that a Memo can subscribe to.
// Signal[T] and Memo[T] both qualify.
type Dependency interface {
	depBase() *signalBase
}

// Memo is a cached computation over an explicit set of dependencies.
// When any dependency changes, the memo is invalidated and will recompute
// on the next read.
//
// Memos are lazy: they only compute their value when Get() is called.
// If multiple dependencies change before a read, the memo recomputes once.
//
// Memos can also be subscribed to, behaving like signals themselves.
// This allows building chains of derived values. Note that subscribers are
// notified when a dependency changes; the recomputed value they observe may
// compare equal to the previous one, and it is the subscriber's job to
// filter if that matters (watchers do).
type Memo[T any] struct {
	base signalBase

	// compute is the function that computes the memo's value.
	compute func() T

	// value is the cached computed value.
	value T

	// valueMu protects value access.
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	// When false, the next Get() will recompute.
	valid atomic.Bool

	// sources are the dependencies named at construction.
	// The slice is fixed after NewMemo returns.
	sources []*signalBase

	// stopped is set once Stop detaches the memo from its sources.
	stopped atomic.Bool

	// computing prevents infinite recursion in circular dependencies.
	computing atomic.Bool
}

// NewMemo creates a new memo over the given dependencies. The computation
// is not run immediately; it runs lazily on first Get(). Dependencies are
// fixed for the life of the memo, so compute must only read sources listed
// here (reading others works but changes to them go unnoticed).
func NewMemo[T any](compute func() T, deps ...Dependency) *Memo[T] {
	m := &Memo[T]{
		base: signalBase{
			id: nextID(),
		},
		compute: compute,
		sources: make([]*signalBase, 0, len(deps)),
	}

	for _, dep := range deps {
		if dep == nil {
			continue
		}
		base := dep.depBase()
		m.sources = append(m.sources, base)
		base.subscribe(m)
	}

	return m
}

// Get returns the memo's value, recomputing if necessary.
func (m *Memo[T]) Get() T {
	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Subscribe registers fn to run with the recomputed value whenever a
// dependency changes. The returned function removes the subscription.
func (m *Memo[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := newFuncListener(func() { fn(m.Get()) })
	m.base.subscribe(l)
	return func() { m.base.unsubscribe(l) }
}

// MarkDirty invalidates the memo and propagates to subscribers.
// Implements the Listener interface.
func (m *Memo[T]) MarkDirty() {
	// Use CAS for idempotent marking
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
// Implements the Listener interface.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Stop detaches the memo from its dependencies. The cached value remains
// readable but no longer updates. Stop is idempotent.
func (m *Memo[T]) Stop() {
	if m.stopped.Swap(true) {
		return
	}
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
}

// depBase implements Dependency, allowing memos to feed other memos.
func (m *Memo[T]) depBase() *signalBase {
	return &m.base
}

// recompute runs the computation and updates the cached value.
func (m *Memo[T]) recompute() {
	// Prevent infinite recursion in circular dependencies
	if m.computing.Swap(true) {
		// Already computing - circular dependency, serve the stale value
		return
	}
	defer m.computing.Store(false)

	newValue := m.compute()

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.valid.Store(true)
}

// Ensure Memo implements Listener and Dependency.
var (
	_ Listener   = (*Memo[int])(nil)
	_ Dependency = (*Memo[int])(nil)
	_ Dependency = (*Signal[int])(nil)
)
