package state

import (
	"sync"
	"testing"

	"github.com/reago-dev/reago/pkg/reago"
)

func TestGlobalBuildsOnce(t *testing.T) {
	runs := 0
	g := NewGlobal(func(owner *reago.Owner) *reago.Signal[int] {
		runs++
		return reago.NewSignal(42)
	})

	if runs != 0 {
		t.Fatal("expected lazy construction")
	}

	first := g.Get()
	second := g.Get()

	if runs != 1 {
		t.Errorf("expected factory to run once, ran %d times", runs)
	}
	if first != second {
		t.Error("expected every Get to return the same instance")
	}
	if first.Get() != 42 {
		t.Errorf("expected 42, got %d", first.Get())
	}
}

func TestGlobalScopeNeverDisposed(t *testing.T) {
	cleaned := false
	g := NewGlobal(func(owner *reago.Owner) int {
		owner.OnCleanup(func() { cleaned = true })
		return 1
	})

	g.Get()
	g.Get()

	if cleaned {
		t.Error("expected global scope to never run cleanups")
	}
}

func TestGlobalConcurrentGet(t *testing.T) {
	runs := 0
	g := NewGlobal(func(owner *reago.Owner) int {
		runs++
		return 7
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := g.Get(); got != 7 {
				t.Errorf("expected 7, got %d", got)
			}
		}()
	}
	wg.Wait()

	if runs != 1 {
		t.Errorf("expected factory to run once under contention, ran %d times", runs)
	}
}

func TestSharedRefCounting(t *testing.T) {
	runs := 0
	s := NewShared(func(owner *reago.Owner) *reago.Signal[string] {
		runs++
		return reago.NewSignal("state")
	})

	first, release1 := s.Acquire()
	second, release2 := s.Acquire()

	if runs != 1 {
		t.Errorf("expected one factory run for two acquires, got %d", runs)
	}
	if first != second {
		t.Error("expected acquires to share one instance")
	}
	if s.Refs() != 2 {
		t.Errorf("expected 2 refs, got %d", s.Refs())
	}

	release1()
	if s.Refs() != 1 {
		t.Errorf("expected 1 ref after release, got %d", s.Refs())
	}

	release2()
	if s.Refs() != 0 {
		t.Errorf("expected 0 refs, got %d", s.Refs())
	}
}

func TestSharedTearDownAtZero(t *testing.T) {
	cleanups := 0
	s := NewShared(func(owner *reago.Owner) int {
		owner.OnCleanup(func() { cleanups++ })
		return 1
	})

	_, release := s.Acquire()
	if cleanups != 0 {
		t.Fatal("expected no cleanup while held")
	}

	release()
	if cleanups != 1 {
		t.Errorf("expected cleanup at zero refs, got %d", cleanups)
	}
}

func TestSharedRebuildsAfterTearDown(t *testing.T) {
	runs := 0
	s := NewShared(func(owner *reago.Owner) *reago.Signal[int] {
		runs++
		return reago.NewSignal(runs)
	})

	first, release := s.Acquire()
	release()

	second, release2 := s.Acquire()
	defer release2()

	if runs != 2 {
		t.Errorf("expected factory to re-run after teardown, ran %d times", runs)
	}
	if first == second {
		t.Error("expected a fresh instance after teardown")
	}
}

func TestSharedReleaseIdempotent(t *testing.T) {
	s := NewShared(func(owner *reago.Owner) int { return 1 })

	_, release1 := s.Acquire()
	_, release2 := s.Acquire()

	release1()
	release1()
	release1()

	if s.Refs() != 1 {
		t.Errorf("expected repeated release to decrement once, got %d refs", s.Refs())
	}

	release2()
	if s.Refs() != 0 {
		t.Errorf("expected 0 refs, got %d", s.Refs())
	}
}

func TestSharedConcurrentAcquire(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	s := NewShared(func(owner *reago.Owner) int {
		mu.Lock()
		runs++
		mu.Unlock()
		return 1
	})

	var wg sync.WaitGroup
	releases := make([]func(), 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, releases[i] = s.Acquire()
		}(i)
	}
	wg.Wait()

	mu.Lock()
	if runs != 1 {
		t.Errorf("expected one factory run under contention, got %d", runs)
	}
	mu.Unlock()
	if s.Refs() != 20 {
		t.Errorf("expected 20 refs, got %d", s.Refs())
	}

	for _, release := range releases {
		release()
	}
	if s.Refs() != 0 {
		t.Errorf("expected 0 refs after all releases, got %d", s.Refs())
	}
}
