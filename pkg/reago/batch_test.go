package reago

import (
	"sync"
	"testing"
)

func TestBatchDeduplicatesNotifications(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	listener := newTestListener()
	a.base.subscribe(listener)
	b.base.subscribe(listener)

	Batch(func() {
		a.Set(1)
		b.Set(2)
		a.Set(3)

		if listener.getDirtyCount() != 0 {
			t.Errorf("expected no notifications inside batch, got %d", listener.getDirtyCount())
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 deduplicated notification, got %d", listener.getDirtyCount())
	}
}

func TestBatchNested(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	count.base.subscribe(listener)

	Batch(func() {
		count.Set(1)
		Batch(func() {
			count.Set(2)
		})

		// Inner batch completion must not flush
		if listener.getDirtyCount() != 0 {
			t.Errorf("expected no notifications before outer batch completes, got %d", listener.getDirtyCount())
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification after outer batch, got %d", listener.getDirtyCount())
	}
}

func TestBatchSubscriberSeesFinalValue(t *testing.T) {
	count := NewSignal(0)

	var got []int
	count.Subscribe(func(n int) {
		got = append(got, n)
	})

	Batch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})

	if len(got) != 1 || got[0] != 3 {
		t.Errorf("expected one delivery of final value 3, got %v", got)
	}
}

func TestBatchPanicStillFlushes(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	count.base.subscribe(listener)

	func() {
		defer func() { _ = recover() }()
		Batch(func() {
			count.Set(1)
			panic("boom")
		})
	}()

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected notification after panicking batch, got %d", listener.getDirtyCount())
	}

	// Depth must be back to zero: the next write notifies immediately
	count.Set(2)
	if listener.getDirtyCount() != 2 {
		t.Errorf("expected immediate notification after batch, got %d", listener.getDirtyCount())
	}
}

func TestBatchConcurrentGoroutines(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	count.base.subscribe(listener)

	// Batches are per-goroutine and must not interfere
	var wg sync.WaitGroup
	const numGoroutines = 16
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			Batch(func() {
				count.Set(id + 1)
			})
		}(i)
	}
	wg.Wait()

	if listener.getDirtyCount() == 0 {
		t.Error("expected notifications from concurrent batches")
	}
}
