package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/reago-dev/reago/pkg/features/limiter"
	"github.com/reago-dev/reago/pkg/reago"
)

type config struct {
	interval reago.Source[time.Duration]
	ctx      context.Context
	logger   *slog.Logger
}

// Option configures a storage value.
type Option func(*config)

// WithWriteInterval sets the throttle window for backend writes. The
// default is 100ms.
func WithWriteInterval(interval reago.Source[time.Duration]) Option {
	return func(c *config) {
		c.interval = interval
	}
}

// WithContext sets the context passed to backend operations.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger for backend failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Value is a signal whose state is persisted through a Backend.
//
// Reads and writes hit the in-memory signal directly. Backend writes are
// throttled on the trailing edge: during a burst of updates the backend
// sees one write per interval, carrying the newest value. Backend errors
// are logged and never propagate to callers.
type Value[T any] struct {
	signal  *reago.Signal[T]
	backend Backend
	key     string
	initial T
	ctx     context.Context
	logger  *slog.Logger
	writer  *limiter.Throttled[T]
}

// New creates a storage-backed value for key.
//
// The initial state comes from the backend when a stored value exists and
// decodes; otherwise initial is used. Read and decode failures fall back
// to initial with a logged warning, so a corrupt store never breaks
// startup.
func New[T any](backend Backend, key string, initial T, opts ...Option) *Value[T] {
	cfg := config{
		interval: reago.Value(100 * time.Millisecond),
		ctx:      context.Background(),
		logger:   slog.Default().With("component", "storage"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	current := initial
	data, err := backend.GetValue(cfg.ctx, key)
	switch {
	case err != nil:
		cfg.logger.Warn("initial read failed", "key", key, "error", err)
	case data != nil:
		var loaded T
		if err := json.Unmarshal(data, &loaded); err != nil {
			cfg.logger.Warn("stored value corrupt", "key", key, "error", err)
		} else {
			current = loaded
		}
	}

	v := &Value[T]{
		signal:  reago.NewSignal(current),
		backend: backend,
		key:     key,
		initial: initial,
		ctx:     cfg.ctx,
		logger:  cfg.logger,
	}
	v.writer = limiter.NewThrottled(v.writeNow, cfg.interval,
		limiter.Leading(false), limiter.Trailing(true))
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.signal.Get()
}

// Set updates the value. Subscribers are notified immediately; the backend
// write is scheduled through the throttle.
func (v *Value[T]) Set(value T) {
	v.signal.Set(value)
	v.writer.Call(value)
}

// Update applies fn to the current value and stores the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.Set(fn(v.signal.Get()))
}

// Subscribe registers fn to run with the new value after each change.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return v.signal.Subscribe(fn)
}

// Signal exposes the underlying signal for use as a memo dependency.
func (v *Value[T]) Signal() *reago.Signal[T] {
	return v.signal
}

// Key returns the backend key.
func (v *Value[T]) Key() string {
	return v.key
}

// Remove deletes the key from the backend immediately, drops any pending
// write, and resets the value to the construction default.
func (v *Value[T]) Remove() {
	v.writer.Cancel()
	if err := v.backend.SetValue(v.ctx, v.key, nil); err != nil {
		v.logger.Warn("remove failed", "key", v.key, "error", err)
	}
	v.signal.Set(v.initial)
}

// Flush forces a pending backend write to happen now.
func (v *Value[T]) Flush() {
	v.writer.Flush()
}

// Stop drops any pending write and stops the write scheduler. The
// in-memory signal keeps working.
func (v *Value[T]) Stop() {
	v.writer.Stop()
}

func (v *Value[T]) writeNow(value T) {
	data, err := json.Marshal(value)
	if err != nil {
		v.logger.Warn("encode failed", "key", v.key, "error", err)
		return
	}
	if err := v.backend.SetValue(v.ctx, v.key, data); err != nil {
		v.logger.Warn("write failed", "key", v.key, "error", err)
	}
}
