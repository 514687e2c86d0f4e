// Package query provides an async query and mutation cache keyed by
// canonical strings.
//
// Queries share per-key records through a Client and handle the complete
// async lifecycle:
//
//   - Idle, Loading, Error, and Success states per key
//   - Automatic refetch on key change, enable flip, and invalidation
//   - Hierarchical invalidation by key prefix over a process-wide bus
//   - Mutations that invalidate related queries on success
//   - Optional Prometheus metrics and OpenTelemetry spans
//
// Basic Usage:
//
//	client := query.NewClient()
//
//	posts := query.New(client, query.K("posts"), func(ctx context.Context) ([]Post, error) {
//	    return api.FetchPosts(ctx)
//	})
//	defer posts.Stop()
//
//	create := query.NewMutation(client, api.CreatePost).
//	    Invalidates(query.K("posts"))
//
//	_, err := create.Mutate(ctx, draft) // posts refetches on success
//
// Concurrent fetches for the same key are not de-duplicated: both run,
// and the shared record reflects whichever resolves last, regardless of
// issue order.
package query
