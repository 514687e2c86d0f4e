package inspect

import (
	"sync"

	"github.com/reago-dev/reago/pkg/features/query"
)

// EventType represents the type of inspector event.
type EventType string

const (
	// EventSnapshot carries the full state on WebSocket connect.
	EventSnapshot EventType = "snapshot"
	// EventRecord carries one updated query record.
	EventRecord EventType = "record"
	// EventInvalidated carries one invalidation broadcast.
	EventInvalidated EventType = "invalidated"
)

// Event is a JSON message streamed to inspector clients.
type Event struct {
	Type    EventType                          `json:"type"`
	Client  string                             `json:"client,omitempty"`
	Key     string                             `json:"key,omitempty"`
	Record  *query.Record                      `json:"record,omitempty"`
	State   map[string]any                     `json:"state,omitempty"`
	Queries map[string]map[string]query.Record `json:"queries,omitempty"`
}

// Probe returns a point-in-time view of one piece of application state.
// Probes run on every snapshot request and must be safe to call from any
// goroutine.
type Probe func() any

// Registry holds the probes and query clients exposed by the inspector.
// A zero registry is not usable; call NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	probes   map[string]Probe
	clients  map[string]*query.Client
	detaches map[string]func()

	nextID uint64
	subs   map[uint64]func(Event)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		probes:   make(map[string]Probe),
		clients:  make(map[string]*query.Client),
		detaches: make(map[string]func()),
		subs:     make(map[uint64]func(Event)),
	}
}

// Register adds a named probe, replacing any probe with the same name.
func (r *Registry) Register(name string, probe Probe) {
	r.mu.Lock()
	r.probes[name] = probe
	r.mu.Unlock()
}

// Unregister removes a named probe.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.probes, name)
	r.mu.Unlock()
}

// AttachClient exposes a query client under the given name. Record updates
// and invalidation broadcasts are re-published as inspector events until
// DetachClient is called.
func (r *Registry) AttachClient(name string, client *query.Client) {
	unsubRecord := client.Watch(func(canonical string, rec query.Record) {
		r.publish(Event{Type: EventRecord, Client: name, Key: canonical, Record: &rec})
	})
	unsubInvalidate := client.OnInvalidate(func(canonical string) {
		r.publish(Event{Type: EventInvalidated, Client: name, Key: canonical})
	})

	r.mu.Lock()
	prev := r.detaches[name]
	r.clients[name] = client
	r.detaches[name] = func() {
		unsubRecord()
		unsubInvalidate()
	}
	r.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// DetachClient removes a named client and stops re-publishing its events.
func (r *Registry) DetachClient(name string) {
	r.mu.Lock()
	detach := r.detaches[name]
	delete(r.detaches, name)
	delete(r.clients, name)
	r.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// StateSnapshot runs every probe and returns the results by name.
func (r *Registry) StateSnapshot() map[string]any {
	r.mu.RLock()
	probes := make(map[string]Probe, len(r.probes))
	for name, probe := range r.probes {
		probes[name] = probe
	}
	r.mu.RUnlock()

	out := make(map[string]any, len(probes))
	for name, probe := range probes {
		out[name] = probe()
	}
	return out
}

// QuerySnapshot returns every attached client's records by client name.
func (r *Registry) QuerySnapshot() map[string]map[string]query.Record {
	r.mu.RLock()
	clients := make(map[string]*query.Client, len(r.clients))
	for name, client := range r.clients {
		clients[name] = client
	}
	r.mu.RUnlock()

	out := make(map[string]map[string]query.Record, len(clients))
	for name, client := range clients {
		out[name] = client.Snapshot()
	}
	return out
}

// snapshot builds the on-connect event.
func (r *Registry) snapshot() Event {
	return Event{
		Type:    EventSnapshot,
		State:   r.StateSnapshot(),
		Queries: r.QuerySnapshot(),
	}
}

// Subscribe registers fn to receive every re-published event.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

func (r *Registry) publish(ev Event) {
	r.mu.RLock()
	subs := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
