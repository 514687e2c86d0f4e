package watch

import (
	"sync"
	"testing"

	"github.com/reago-dev/reago/pkg/reago"
)

type change[T any] struct {
	newValue T
	oldValue T
}

type recorder[T any] struct {
	mu      sync.Mutex
	changes []change[T]
}

func (r *recorder[T]) callback(newValue, oldValue T) {
	r.mu.Lock()
	r.changes = append(r.changes, change[T]{newValue, oldValue})
	r.mu.Unlock()
}

func (r *recorder[T]) all() []change[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]change[T], len(r.changes))
	copy(out, r.changes)
	return out
}

func TestWatchBaselineDoesNotFire(t *testing.T) {
	sig := reago.NewSignal(1)
	rec := &recorder[int]{}

	New[int](sig, rec.callback)

	if got := rec.all(); len(got) != 0 {
		t.Errorf("expected no callback on construction, got %v", got)
	}
}

func TestWatchFiresOnChange(t *testing.T) {
	sig := reago.NewSignal(1)
	rec := &recorder[int]{}

	New[int](sig, rec.callback)

	sig.Set(2)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	if got[0].newValue != 2 || got[0].oldValue != 1 {
		t.Errorf("expected (2, 1), got (%d, %d)", got[0].newValue, got[0].oldValue)
	}

	// Same value again: the signal suppresses the notification
	sig.Set(2)
	if got := rec.all(); len(got) != 1 {
		t.Errorf("expected still 1 callback, got %d", len(got))
	}
}

func TestWatchImmediate(t *testing.T) {
	sig := reago.NewSignal(5)
	rec := &recorder[int]{}

	New[int](sig, rec.callback, Immediate())

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected immediate callback, got %d", len(got))
	}
	// oldValue is the zero value only for the immediate initial call
	if got[0].newValue != 5 || got[0].oldValue != 0 {
		t.Errorf("expected (5, 0), got (%d, %d)", got[0].newValue, got[0].oldValue)
	}

	sig.Set(6)
	got = rec.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(got))
	}
	if got[1].newValue != 6 || got[1].oldValue != 5 {
		t.Errorf("expected (6, 5), got (%d, %d)", got[1].newValue, got[1].oldValue)
	}
}

func TestWatchStop(t *testing.T) {
	sig := reago.NewSignal(1)
	rec := &recorder[int]{}

	h := New[int](sig, rec.callback)
	h.Stop()

	sig.Set(2)
	if got := rec.all(); len(got) != 0 {
		t.Errorf("expected no callbacks after Stop, got %v", got)
	}

	// Stop is idempotent
	h.Stop()
}

func TestWatchScoped(t *testing.T) {
	owner := reago.NewOwner(nil)
	sig := reago.NewSignal(1)
	rec := &recorder[int]{}

	New[int](sig, rec.callback, Scoped(owner))

	sig.Set(2)
	owner.Dispose()
	sig.Set(3)

	got := rec.all()
	if len(got) != 1 {
		t.Errorf("expected 1 callback before disposal, got %d", len(got))
	}
}

func TestWatchPrevUpdatesWhenCallbackSkipped(t *testing.T) {
	sig := reago.NewSignal(0)
	rec := &recorder[int]{}

	// Treat steps smaller than 5 as "no change"
	New[int](sig, rec.callback, WithEquals(func(a, b int) bool {
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		return diff < 5
	}))

	sig.Set(2) // |0-2| < 5: skipped, previous becomes 2
	sig.Set(4) // |2-4| < 5: skipped, previous becomes 4
	sig.Set(20)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	// Previous tracked through the skipped updates, so oldValue is 4, not 0
	if got[0].newValue != 20 || got[0].oldValue != 4 {
		t.Errorf("expected (20, 4), got (%d, %d)", got[0].newValue, got[0].oldValue)
	}
}

func TestWatchDeep(t *testing.T) {
	type payload struct {
		Items []int
	}

	// Always-notify signal so the watcher's own compare decides
	sig := reago.NewSignal(payload{Items: []int{1}}).WithEquals(func(a, b payload) bool {
		return false
	})

	shallow := &recorder[payload]{}
	deep := &recorder[payload]{}
	New[payload](sig, shallow.callback)
	New[payload](sig, deep.callback, Deep())

	// Fresh value, same contents
	sig.Set(payload{Items: []int{1}})

	if got := shallow.all(); len(got) != 1 {
		t.Errorf("shallow: expected 1 callback for rebuilt value, got %d", len(got))
	}
	if got := deep.all(); len(got) != 0 {
		t.Errorf("deep: expected 0 callbacks for structurally equal value, got %d", len(got))
	}

	sig.Set(payload{Items: []int{2}})
	if got := deep.all(); len(got) != 1 {
		t.Errorf("deep: expected 1 callback for changed value, got %d", len(got))
	}
}

func TestWatchMemoSource(t *testing.T) {
	count := reago.NewSignal(1)
	doubled := reago.NewMemo(func() int { return count.Get() * 2 }, count)
	rec := &recorder[int]{}

	New[int](doubled, rec.callback)

	count.Set(3)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	if got[0].newValue != 6 || got[0].oldValue != 2 {
		t.Errorf("expected (6, 2), got (%d, %d)", got[0].newValue, got[0].oldValue)
	}
}

func TestWatchBatchedWritesFireOnce(t *testing.T) {
	sig := reago.NewSignal(0)
	rec := &recorder[int]{}

	New[int](sig, rec.callback)

	reago.Batch(func() {
		sig.Set(1)
		sig.Set(2)
		sig.Set(3)
	})

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 callback for batched writes, got %d", len(got))
	}
	if got[0].newValue != 3 || got[0].oldValue != 0 {
		t.Errorf("expected (3, 0), got (%d, %d)", got[0].newValue, got[0].oldValue)
	}
}

func TestWatchEqualsTypeMismatchPanics(t *testing.T) {
	sig := reago.NewSignal(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched equals function")
		}
	}()

	New[int](sig, func(int, int) {}, WithEquals(func(a, b string) bool { return a == b }))
}
