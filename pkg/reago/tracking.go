package reago

import (
	"runtime"
	"sync"
)

// trackingContext holds the batch state for a goroutine. Batching is the
// one piece of goroutine-scoped state in the package: updates performed
// inside Batch queue their notifications here instead of firing directly.
type trackingContext struct {
	// batchDepth tracks nested Batch() calls.
	// When > 0, signal updates queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the batch completes.
	// Deduplicated by ID before notification.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
// Using sync.Map for concurrent access from multiple goroutines.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
// Note: This is an implementation detail and should not be relied upon externally.
func getGoroutineID() uint64 {
	// Use a buffer to read the stack
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	// Parse the ID from the stack trace
	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// releaseTrackingContext removes the current goroutine's tracking context.
// Called when the outermost batch completes so goroutines don't accumulate
// entries in the map.
func releaseTrackingContext() {
	trackingContexts.Delete(getGoroutineID())
}

// getBatchDepth returns the current batch nesting depth. Reads do not
// create a context: only Batch itself allocates one, so goroutines that
// never batch leave no entry behind.
func getBatchDepth() int {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext).batchDepth
	}
	return 0
}

// incrementBatchDepth increases the batch depth by 1.
func incrementBatchDepth() {
	ctx := getTrackingContext()
	ctx.batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if batch depth reached 0 (batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingUpdate adds a listener to the pending updates queue.
// Called during batch mode when a signal is updated.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the pending updates queue.
// Called when a batch completes to process all queued notifications.
func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}
