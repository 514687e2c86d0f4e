package state

import (
	"sync"

	"github.com/reago-dev/reago/pkg/reago"
)

// Global lazily builds a process-wide singleton.
//
// The factory runs at most once, on the first Get, inside a root ownership
// scope that is never disposed. Every caller receives the same result.
type Global[T any] struct {
	once    sync.Once
	factory func(*reago.Owner) T
	value   T
	owner   *reago.Owner
}

// NewGlobal declares a global. The factory does not run until the first
// Get.
func NewGlobal[T any](factory func(*reago.Owner) T) *Global[T] {
	return &Global[T]{factory: factory}
}

// Get returns the singleton, building it on first use.
func (g *Global[T]) Get() T {
	g.once.Do(func() {
		g.owner = reago.NewOwner(nil)
		g.value = g.factory(g.owner)
	})
	return g.value
}
