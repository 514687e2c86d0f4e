package query

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/reago-dev/reago/pkg/reago"
)

// MutationFunc performs a mutation with the given parameter.
type MutationFunc[P, V any] func(ctx context.Context, param P) (V, error)

// Mutation tracks one mutation function's async state.
//
// Unlike queries, the record is private to the instance: two mutations
// built from the same function do not share state. Data is retained
// across later failures, mirroring query records.
type Mutation[P, V any] struct {
	client *Client
	fn     MutationFunc[P, V]
	record *reago.Signal[Record]

	mu          sync.Mutex
	invalidates []Key
	onSuccess   func(V, *Client)
	onError     func(error, *Client)
}

// NewMutation creates a mutation around fn. Configuration chains:
//
//	create := query.NewMutation(client, api.CreatePost).
//	    Invalidates(query.K("posts")).
//	    OnSuccess(func(p Post, c *query.Client) { log.Printf("created %d", p.ID) })
func NewMutation[P, V any](client *Client, fn MutationFunc[P, V]) *Mutation[P, V] {
	return &Mutation[P, V]{
		client: client,
		fn:     fn,
		record: reago.NewSignal(Record{Status: Idle}),
	}
}

// Invalidates adds keys to broadcast after each successful mutation.
func (m *Mutation[P, V]) Invalidates(keys ...Key) *Mutation[P, V] {
	m.mu.Lock()
	m.invalidates = append(m.invalidates, keys...)
	m.mu.Unlock()
	return m
}

// OnSuccess registers a callback invoked after the invalidations of a
// successful mutation.
func (m *Mutation[P, V]) OnSuccess(fn func(V, *Client)) *Mutation[P, V] {
	m.mu.Lock()
	m.onSuccess = fn
	m.mu.Unlock()
	return m
}

// OnError registers a callback invoked after a failed mutation.
func (m *Mutation[P, V]) OnError(fn func(error, *Client)) *Mutation[P, V] {
	m.mu.Lock()
	m.onError = fn
	m.mu.Unlock()
	return m
}

// Mutate runs the mutation. The record flips to Loading synchronously,
// then to Success or Error on completion. On success the configured keys
// are invalidated before the success callback runs, so queries the
// callback inspects are already refetching. Failures are returned to the
// caller.
func (m *Mutation[P, V]) Mutate(ctx context.Context, param P) (V, error) {
	m.mu.Lock()
	invalidates := make([]Key, len(m.invalidates))
	copy(invalidates, m.invalidates)
	onSuccess := m.onSuccess
	onError := m.onError
	m.mu.Unlock()

	start := time.Now()
	ctx, span := m.client.tracer.Start(ctx, "query.mutate")
	defer span.End()

	m.record.Update(func(r Record) Record {
		r.Status = Loading
		r.Err = nil
		return r
	})

	data, err := m.fn(ctx, param)

	if err != nil {
		m.record.Update(func(r Record) Record {
			r.Status = Error
			r.Err = err
			return r
		})
		m.client.metrics.observeMutation("error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.client.logger.Debug("mutation failed", "error", err)
		if onError != nil {
			onError(err, m.client)
		}
		var zero V
		return zero, err
	}

	m.record.Set(Record{Status: Success, Data: data})
	m.client.metrics.observeMutation("success", time.Since(start))
	span.SetStatus(codes.Ok, "")

	m.client.InvalidateQueries(invalidates...)
	if onSuccess != nil {
		onSuccess(data, m.client)
	}
	return data, nil
}

// Record returns the mutation's current record.
func (m *Mutation[P, V]) Record() Record {
	return m.record.Get()
}

// Status returns the current status.
func (m *Mutation[P, V]) Status() Status {
	return m.record.Get().Status
}

// Data returns the last successful result, or the zero value.
func (m *Mutation[P, V]) Data() V {
	if v, ok := m.record.Get().Data.(V); ok {
		return v
	}
	var zero V
	return zero
}

// Err returns the record's error.
func (m *Mutation[P, V]) Err() error {
	return m.record.Get().Err
}

func (m *Mutation[P, V]) IsLoading() bool {
	return m.record.Get().Status == Loading
}

// Subscribe registers fn to run after each record change.
func (m *Mutation[P, V]) Subscribe(fn func(Record)) (unsubscribe func()) {
	return m.record.Subscribe(fn)
}

// Reset returns the record to Idle, dropping data and error.
func (m *Mutation[P, V]) Reset() {
	m.record.Set(Record{Status: Idle})
}
