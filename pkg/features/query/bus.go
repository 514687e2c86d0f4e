package query

import (
	"sync"
	"sync/atomic"
)

// EventInvalidate carries a canonicalized key prefix whose matching
// queries should refetch.
const EventInvalidate = "query:invalidate"

// DefaultBus is the process-wide bus clients use unless given their own.
var DefaultBus = NewBus()

type busSubscriber struct {
	id uint64
	fn func(string)
}

// Bus is a named-event broadcast channel carrying one string payload per
// event. Dispatch is synchronous and fire-and-forget: every subscriber of
// the event runs on the publishing goroutine, and there is no delivery
// guarantee beyond that.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]busSubscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]busSubscriber)}
}

// Subscribe registers fn for an event and returns its unsubscribe
// function.
func (b *Bus) Subscribe(event string, fn func(payload string)) (unsubscribe func()) {
	id := atomic.AddUint64(&b.nextID, 1)

	b.mu.Lock()
	b.subs[event] = append(b.subs[event], busSubscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[event]
		for i, sub := range list {
			if sub.id == id {
				b.subs[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish dispatches payload to every subscriber of event. The list is
// copied first, so subscribing or unsubscribing from inside a callback is
// safe.
func (b *Bus) Publish(event, payload string) {
	b.mu.RLock()
	list := b.subs[event]
	subs := make([]busSubscriber, len(list))
	copy(subs, list)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(payload)
	}
}
