// Package inspect provides an embeddable debug server for reactive state.
//
// This package implements:
//   - Named state probes exposed as JSON snapshots
//   - Query client attachment with live record and invalidation events
//   - WebSocket event streaming to connected inspector UIs
//   - Prometheus metrics endpoint
//
// # Architecture
//
// The inspector consists of two components:
//
//   - Registry: Holds probes and attached query clients, fans out events
//   - Server: Serves the HTTP API and the WebSocket event hub
//
// # Usage
//
//	reg := inspect.NewRegistry()
//	reg.Register("settings", func() any { return settings.Get() })
//	reg.AttachClient("api", queryClient)
//
//	srv := inspect.NewServer(inspect.ServerOptions{
//	    Addr:     ":7676",
//	    Registry: reg,
//	})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//	GET /healthz     liveness check
//	GET /api/state   probe snapshot as JSON
//	GET /api/queries query records per attached client as JSON
//	GET /metrics     Prometheus metrics
//	GET /ws          WebSocket event stream
//
// # Event Protocol
//
// The inspector UI connects to /ws. Messages are JSON-encoded:
//
//	{"type": "snapshot", "state": {...}, "queries": {...}} // On connect
//	{"type": "record", "client": "api", "key": "posts → 1", "record": {...}}
//	{"type": "invalidated", "client": "api", "key": "posts"}
package inspect
