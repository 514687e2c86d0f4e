// Package reago provides the reactive core for the reago state utilities.
//
// The reactive system is built around explicit subscriptions: reading a
// value never creates a dependency by itself. Derived computations and
// watchers name the sources they depend on, which keeps data flow visible
// at the call site and avoids hidden goroutine-local tracking state.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (never subscribes)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Subscriptions are explicit and return an unsubscribe function:
//
//	unsubscribe := count.Subscribe(func(n int) {
//	    fmt.Println("count is now", n)
//	})
//	defer unsubscribe()
//
// Memo[T] is a cached derived computation over named dependencies:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 }, count)
//	value := doubled.Get()  // Recomputes only if a dependency changed
//
// Source[T] abstracts over the three ways callers hand values to the
// utilities in this module: a literal, an accessor function, or a Ref cell.
// The variant is fixed at construction:
//
//	wait := reago.Value(100 * time.Millisecond)
//	wait := reago.Accessor(func() time.Duration { return cfg.Wait })
//	wait := reago.FromRef(waitRef)
//
// # Ownership
//
// Owner forms a disposal hierarchy for long-lived helpers. Cleanups
// registered with OnCleanup run in reverse order when the owner is
// disposed, children before parents. Context[T] values provided on an
// owner are visible to the whole subtree.
//
// # Batching
//
// Multiple signal updates can be batched to trigger a single notification
// per listener:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	    c.Set(3)
//	})
//
// # Thread Safety
//
// All reactive primitives are safe for concurrent use. Notifications run
// synchronously on the goroutine that performed the write (or, inside
// Batch, on the goroutine that closes the batch).
package reago
