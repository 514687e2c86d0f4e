package limiter

import (
	"sync"
	"time"

	"github.com/reago-dev/reago/pkg/reago"
)

// throttleConfig holds edge behavior for a Throttled wrapper.
type throttleConfig struct {
	leading  bool
	trailing bool
}

// ThrottleOption configures a Throttled wrapper.
type ThrottleOption func(*throttleConfig)

// Leading controls whether the first call in a window fires immediately.
// Enabled by default.
func Leading(enabled bool) ThrottleOption {
	return func(c *throttleConfig) {
		c.leading = enabled
	}
}

// Trailing controls whether the last suppressed call in a window fires when
// the window closes. Disabled by default: suppressed calls and their
// arguments are dropped entirely.
func Trailing(enabled bool) ThrottleOption {
	return func(c *throttleConfig) {
		c.trailing = enabled
	}
}

// Throttled limits fn to at most one invocation per wait window.
//
// With the default edges, the first call fires immediately and opens a
// window; calls landing inside the window are dropped, arguments included.
// With Trailing enabled, the newest suppressed argument is retained and
// fired once when the window closes, and that invocation opens a fresh
// window so consecutive fires stay at least a full interval apart.
//
// The window length is resolved from the wait source when each window
// opens.
type Throttled[T any] struct {
	fn   func(T)
	wait reago.Source[time.Duration]
	cfg  throttleConfig

	mu       sync.Mutex
	inWindow bool
	timer    *time.Timer
	pending  bool
	lastArg  T
	stopped  bool
}

// NewThrottled creates a throttled wrapper around fn.
func NewThrottled[T any](fn func(T), wait reago.Source[time.Duration], opts ...ThrottleOption) *Throttled[T] {
	cfg := throttleConfig{leading: true, trailing: false}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Throttled[T]{fn: fn, wait: wait, cfg: cfg}
}

// Call invokes or suppresses fn according to the window state.
func (t *Throttled[T]) Call(arg T) {
	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		return
	}

	if !t.inWindow {
		t.inWindow = true
		t.timer = time.AfterFunc(t.wait.Get(), t.windowEnd)

		if t.cfg.leading {
			t.mu.Unlock()
			t.fn(arg)
			return
		}
		if t.cfg.trailing {
			t.pending = true
			t.lastArg = arg
		}
		t.mu.Unlock()
		return
	}

	// Inside the window: retain the newest argument only in trailing mode
	if t.cfg.trailing {
		t.pending = true
		t.lastArg = arg
	}
	t.mu.Unlock()
}

// windowEnd closes the window, firing a retained trailing call first.
func (t *Throttled[T]) windowEnd() {
	t.mu.Lock()

	if t.stopped {
		t.inWindow = false
		t.timer = nil
		t.pending = false
		t.mu.Unlock()
		return
	}

	if t.pending {
		arg := t.lastArg
		t.pending = false
		// The trailing fire opens a fresh window so fires stay spaced
		t.timer = time.AfterFunc(t.wait.Get(), t.windowEnd)
		t.mu.Unlock()
		t.fn(arg)
		return
	}

	t.inWindow = false
	t.timer = nil
	t.mu.Unlock()
}

// Flush fires a retained trailing call immediately and closes the window.
// No-op when nothing is retained.
func (t *Throttled[T]) Flush() {
	t.mu.Lock()
	if !t.pending || t.stopped {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	arg := t.lastArg
	t.pending = false
	t.inWindow = false
	t.mu.Unlock()

	t.fn(arg)
}

// Cancel drops any retained trailing call and closes the window, so the
// next Call starts a fresh one.
func (t *Throttled[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = false
	t.inWindow = false
}

// Pending reports whether a trailing call is retained.
func (t *Throttled[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Stop cancels everything and makes the wrapper inert. Idempotent.
func (t *Throttled[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = false
	t.inWindow = false
	t.stopped = true
}
