package query

import (
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/reago-dev/reago/pkg/reago"
)

// Client owns the shared per-key record map.
//
// Records are created lazily on first use and never deleted; they live as
// long as the client. All mutation goes through the update entry point, so
// every holder of a key observes the same record signal.
type Client struct {
	mu       sync.RWMutex
	records  map[string]*reago.Signal[Record]
	nextID   uint64
	watchers map[uint64]func(string, Record)

	bus     *Bus
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// ClientOption configures a client.
type ClientOption func(*Client)

// WithBus routes invalidations over a private bus instead of DefaultBus.
func WithBus(bus *Bus) ClientOption {
	return func(c *Client) {
		c.bus = bus
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics attaches a Prometheus metrics set. Without it, nothing is
// recorded.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerName resolves the client's tracer from the global provider
// under the given name. The default name is "reago/query"; spans are
// no-ops until a tracer provider is installed.
func WithTracerName(name string) ClientOption {
	return func(c *Client) {
		c.tracer = otel.Tracer(name)
	}
}

// NewClient creates an empty client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		records:  make(map[string]*reago.Signal[Record]),
		watchers: make(map[uint64]func(string, Record)),
		bus:      DefaultBus,
		logger:   slog.Default().With("component", "query"),
		tracer:   otel.Tracer("reago/query"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// record returns the signal for canonical, creating it lazily.
func (c *Client) record(canonical string) *reago.Signal[Record] {
	c.mu.RLock()
	sig, ok := c.records[canonical]
	c.mu.RUnlock()
	if ok {
		return sig
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sig, ok := c.records[canonical]; ok {
		return sig
	}
	sig = reago.NewSignal(Record{Status: Idle})
	c.records[canonical] = sig
	c.metrics.observeRecords(len(c.records))
	return sig
}

// update is the single entry point mutating a record.
func (c *Client) update(canonical string, fn func(Record) Record) {
	var after Record
	c.record(canonical).Update(func(r Record) Record {
		after = fn(r)
		return after
	})

	c.mu.RLock()
	watchers := make([]func(string, Record), 0, len(c.watchers))
	for _, w := range c.watchers {
		watchers = append(watchers, w)
	}
	c.mu.RUnlock()
	for _, w := range watchers {
		w(canonical, after)
	}
}

// Watch registers fn to run after every record update with the canonical
// key and the resulting record. Used by inspection tooling; record signals
// remain the per-key subscription surface.
func (c *Client) Watch(fn func(canonical string, rec Record)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// OnInvalidate registers fn to run for every invalidation broadcast on
// this client's bus, including broadcasts from other clients sharing it.
func (c *Client) OnInvalidate(fn func(canonical string)) (unsubscribe func()) {
	return c.bus.Subscribe(EventInvalidate, fn)
}

// State returns the record for key without creating one; an unknown key
// reads as Idle.
func (c *Client) State(key Key) Record {
	c.mu.RLock()
	sig, ok := c.records[key.Canonical()]
	c.mu.RUnlock()
	if !ok {
		return Record{Status: Idle}
	}
	return sig.Get()
}

// Keys returns the canonical keys with records, sorted.
func (c *Client) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.records))
	for k := range c.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of every record by canonical key.
func (c *Client) Snapshot() map[string]Record {
	c.mu.RLock()
	signals := make(map[string]*reago.Signal[Record], len(c.records))
	for k, sig := range c.records {
		signals[k] = sig
	}
	c.mu.RUnlock()

	out := make(map[string]Record, len(signals))
	for k, sig := range signals {
		out[k] = sig.Get()
	}
	return out
}

// InvalidateQuery broadcasts key's canonical string; every active query
// whose canonical key it prefixes refetches, bypassing freshness.
func (c *Client) InvalidateQuery(key Key) {
	canonical := key.Canonical()
	c.logger.Debug("invalidate", "key", canonical)
	c.metrics.observeInvalidation()
	c.bus.Publish(EventInvalidate, canonical)
}

// InvalidateQueries broadcasts each key in order.
func (c *Client) InvalidateQueries(keys ...Key) {
	for _, key := range keys {
		c.InvalidateQuery(key)
	}
}

// ClientContext provides a client to an ownership subtree.
var ClientContext = reago.CreateContext[*Client]("QueryClient", nil)

// ProvideClient makes client available to owner and its descendants.
func ProvideClient(owner *reago.Owner, client *Client) {
	ClientContext.Provide(owner, client)
}

// UseClient returns the provided client, panicking when none is in scope:
// running query code without a client is a wiring error.
func UseClient(owner *reago.Owner) *Client {
	return ClientContext.MustUse(owner)
}
