package reago

import (
	"sync"
	"sync/atomic"
)

// Owner represents a scope that owns long-lived reactive helpers.
// When an Owner is disposed, all child owners and registered cleanups run,
// which is how watchers, shared state, and storage handles tied to a scope
// get released together.
//
// Owners form a hierarchy: pass the parent to NewOwner and the child is
// disposed along with it.
type Owner struct {
	id uint64

	// parent is the parent Owner in the hierarchy.
	// nil for a root Owner.
	parent *Owner

	// children are child Owners.
	children   []*Owner
	childrenMu sync.Mutex

	// cleanups are functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// values stores context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	// disposed indicates whether this Owner has been disposed.
	disposed atomic.Bool
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is automatically registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// addChild registers a child Owner.
func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

// removeChild removes a child Owner from this Owner's children.
func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
// If the Owner is already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Dispose disposes this Owner, its children, and registered cleanups.
// Children are disposed in reverse order (last created first), then
// cleanups run in reverse registration order. Dispose is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		// Already disposed
		return
	}

	// Remove from parent's children list
	if o.parent != nil {
		o.parent.removeChild(o)
	}

	// Dispose children in reverse order
	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	// Run cleanups in reverse order
	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
