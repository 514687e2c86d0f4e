package query

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/reago-dev/reago/pkg/features/watch"
	"github.com/reago-dev/reago/pkg/reago"
)

// FetchFunc loads the data for a fixed-key query.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// KeyedFetchFunc loads the data for the query's current key.
type KeyedFetchFunc[V any] func(ctx context.Context, key Key) (V, error)

type queryConfig struct {
	staleTime time.Duration
	ctx       context.Context
	enabled   watch.Observable[bool]
	owner     *reago.Owner
	onSuccess any
	onError   func(error, *Client)
}

// Option configures a query.
type Option func(*queryConfig)

// StaleTime sets the freshness window Fetch honors: a successful result
// younger than d is returned without refetching. Zero (the default) makes
// every Fetch run.
func StaleTime(d time.Duration) Option {
	return func(c *queryConfig) {
		c.staleTime = d
	}
}

// WithContext sets the base context for trigger-driven fetches.
func WithContext(ctx context.Context) Option {
	return func(c *queryConfig) {
		c.ctx = ctx
	}
}

// Enabled gates automatic triggers behind a reactive toggle. While the
// toggle reads false, triggers are suppressed; each flip to true fetches.
// A disabled query also skips its first-activation fetch.
func Enabled(obs watch.Observable[bool]) Option {
	return func(c *queryConfig) {
		c.enabled = obs
	}
}

// Scoped stops the query when owner is disposed.
func Scoped(owner *reago.Owner) Option {
	return func(c *queryConfig) {
		c.owner = owner
	}
}

// OnSuccess registers a callback invoked with the fetched data and the
// client after each successful fetch. The function type must match the
// query's value type.
func OnSuccess[V any](fn func(V, *Client)) Option {
	return func(c *queryConfig) {
		c.onSuccess = fn
	}
}

// OnError registers a callback invoked with the failure and the client
// after each failed fetch.
func OnError(fn func(error, *Client)) Option {
	return func(c *queryConfig) {
		c.onError = fn
	}
}

// Query is a typed view over one shared record, refetching automatically
// when its key changes, its enable toggle flips to true, or a matching
// invalidation arrives.
//
// Concurrent fetches for the same key all run and all write the shared
// record on completion, so it reflects whichever resolved last.
type Query[V any] struct {
	client *Client
	fetch  KeyedFetchFunc[V]

	mu          sync.Mutex
	key         Key
	canonical   string
	lastFetch   time.Time
	recordUnsub func()

	view      *reago.Signal[Record]
	staleTime time.Duration
	ctx       context.Context
	enabled   watch.Observable[bool]
	onSuccess func(V, *Client)
	onError   func(error, *Client)

	keyWatch     *watch.Handle
	enabledWatch *watch.Handle
	busUnsub     func()
	stopped      atomic.Bool
}

// New creates a query with a fixed key and starts its first fetch.
func New[V any](client *Client, key Key, fetch FetchFunc[V], opts ...Option) *Query[V] {
	return build(client, key, func(ctx context.Context, _ Key) (V, error) {
		return fetch(ctx)
	}, opts)
}

// NewWithKey creates a query whose key follows a reactive source. The key
// is compared structurally; each distinct key switches the query to that
// key's shared record and fetches it.
func NewWithKey[V any](client *Client, keyObs watch.Observable[Key], fetch KeyedFetchFunc[V], opts ...Option) *Query[V] {
	q := build(client, keyObs.Get(), fetch, opts)
	q.keyWatch = watch.New(keyObs, func(key, _ Key) {
		q.setKey(key)
	}, watch.Deep())
	return q
}

func build[V any](client *Client, key Key, fetch KeyedFetchFunc[V], opts []Option) *Query[V] {
	cfg := queryConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var onSuccess func(V, *Client)
	if cfg.onSuccess != nil {
		typed, ok := cfg.onSuccess.(func(V, *Client))
		if !ok {
			panic(fmt.Sprintf("query: OnSuccess function type %T does not match query value type", cfg.onSuccess))
		}
		onSuccess = typed
	}

	canonical := key.Canonical()
	rec := client.record(canonical)

	q := &Query[V]{
		client:    client,
		fetch:     fetch,
		key:       key,
		canonical: canonical,
		view:      reago.NewSignal(rec.Get()),
		staleTime: cfg.staleTime,
		ctx:       cfg.ctx,
		enabled:   cfg.enabled,
		onSuccess: onSuccess,
		onError:   cfg.onError,
	}
	q.recordUnsub = rec.Subscribe(q.view.Set)

	q.busUnsub = client.bus.Subscribe(EventInvalidate, func(target string) {
		if q.stopped.Load() || !q.isEnabled() {
			return
		}
		q.mu.Lock()
		hit := invalidates(target, q.canonical)
		q.mu.Unlock()
		if hit {
			go q.Refetch(q.ctx)
		}
	})

	if cfg.enabled != nil {
		q.enabledWatch = watch.New(cfg.enabled, func(on, _ bool) {
			if on && !q.stopped.Load() {
				go q.Fetch(q.ctx)
			}
		})
	}

	if q.isEnabled() {
		go q.Fetch(q.ctx)
	}

	if cfg.owner != nil {
		cfg.owner.OnCleanup(q.Stop)
	}
	return q
}

// setKey switches the query to a new key's record and fetches it.
func (q *Query[V]) setKey(key Key) {
	canonical := key.Canonical()
	rec := q.client.record(canonical)

	q.mu.Lock()
	q.key = key
	q.canonical = canonical
	q.lastFetch = time.Time{}
	oldUnsub := q.recordUnsub
	q.recordUnsub = rec.Subscribe(q.view.Set)
	q.mu.Unlock()

	if oldUnsub != nil {
		oldUnsub()
	}
	q.view.Set(rec.Get())

	if q.isEnabled() && !q.stopped.Load() {
		go q.Fetch(q.ctx)
	}
}

func (q *Query[V]) isEnabled() bool {
	return q.enabled == nil || q.enabled.Get()
}

// Fetch returns fresh data: the cached result when it is Success and
// younger than StaleTime, otherwise the result of a new fetch.
func (q *Query[V]) Fetch(ctx context.Context) (V, error) {
	q.mu.Lock()
	fresh := time.Since(q.lastFetch) < q.staleTime
	q.mu.Unlock()

	if fresh {
		if rec := q.view.Get(); rec.Status == Success {
			if v, ok := rec.Data.(V); ok {
				return v, nil
			}
		}
	}
	return q.Refetch(ctx)
}

// Refetch always runs the fetch function. The shared record flips to
// Loading synchronously with the error cleared and data retained, then to
// Success or Error on completion; a failure is also returned to the
// caller. Trigger-driven refetches discard the return values and rely on
// the record.
func (q *Query[V]) Refetch(ctx context.Context) (V, error) {
	q.mu.Lock()
	key := q.key
	canonical := q.canonical
	q.mu.Unlock()

	start := time.Now()
	ctx, span := q.client.tracer.Start(ctx, "query.fetch",
		trace.WithAttributes(attribute.String("reago.key", canonical)))
	defer span.End()

	q.client.update(canonical, func(r Record) Record {
		r.Status = Loading
		r.Err = nil
		return r
	})

	data, err := q.fetch(ctx, key)

	q.mu.Lock()
	q.lastFetch = time.Now()
	q.mu.Unlock()

	if err != nil {
		q.client.update(canonical, func(r Record) Record {
			r.Status = Error
			r.Err = err
			return r
		})
		q.client.metrics.observeFetch("error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		q.client.logger.Debug("fetch failed", "key", canonical, "error", err)
		if q.onError != nil {
			q.onError(err, q.client)
		}
		var zero V
		return zero, err
	}

	q.client.update(canonical, func(r Record) Record {
		r.Status = Success
		r.Data = data
		r.Err = nil
		return r
	})
	q.client.metrics.observeFetch("success", time.Since(start))
	span.SetStatus(codes.Ok, "")
	if q.onSuccess != nil {
		q.onSuccess(data, q.client)
	}
	return data, nil
}

// Key returns the current key.
func (q *Query[V]) Key() Key {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key
}

// Record returns the current shared record.
func (q *Query[V]) Record() Record {
	return q.view.Get()
}

// Status returns the current status.
func (q *Query[V]) Status() Status {
	return q.view.Get().Status
}

// Data returns the cached data, or the zero value when none is cached.
func (q *Query[V]) Data() V {
	if v, ok := q.view.Get().Data.(V); ok {
		return v
	}
	var zero V
	return zero
}

// DataOr returns the cached data when the record is Success, otherwise
// fallback.
func (q *Query[V]) DataOr(fallback V) V {
	rec := q.view.Get()
	if rec.Status != Success {
		return fallback
	}
	if v, ok := rec.Data.(V); ok {
		return v
	}
	return fallback
}

// Err returns the record's error.
func (q *Query[V]) Err() error {
	return q.view.Get().Err
}

func (q *Query[V]) IsLoading() bool {
	return q.view.Get().Status == Loading
}

func (q *Query[V]) IsSuccess() bool {
	return q.view.Get().Status == Success
}

func (q *Query[V]) IsError() bool {
	return q.view.Get().Status == Error
}

// Subscribe registers fn to run after each record change.
func (q *Query[V]) Subscribe(fn func(Record)) (unsubscribe func()) {
	return q.view.Subscribe(fn)
}

// Stop detaches the query's listeners. In-flight fetches are not
// aborted; they still complete and write the shared record, but this
// query no longer reacts to anything. Idempotent.
func (q *Query[V]) Stop() {
	if !q.stopped.CompareAndSwap(false, true) {
		return
	}
	if q.keyWatch != nil {
		q.keyWatch.Stop()
	}
	if q.enabledWatch != nil {
		q.enabledWatch.Stop()
	}
	if q.busUnsub != nil {
		q.busUnsub()
	}

	q.mu.Lock()
	unsub := q.recordUnsub
	q.recordUnsub = nil
	q.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
