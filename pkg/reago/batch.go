package reago

// Batch groups multiple signal updates into a single notification phase.
// All signal updates within the batch function are collected, deduplicated
// by listener ID, and all affected listeners are notified once when the
// outermost batch completes.
//
// This is useful for updating multiple related signals without triggering
// intermediate watcher runs.
//
// Batches are per-goroutine and can be nested. Notifications only fire when
// the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	    age.Set(30)
//	})
//	// Each watcher over these signals fires once
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			// Batch complete, process pending updates
			processPendingUpdates()
			releaseTrackingContext()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	// Deduplicate by listener ID
	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}
