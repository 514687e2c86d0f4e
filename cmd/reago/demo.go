package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reago-dev/reago/pkg/features/history"
	"github.com/reago-dev/reago/pkg/features/limiter"
	"github.com/reago-dev/reago/pkg/features/query"
	"github.com/reago-dev/reago/pkg/features/state"
	"github.com/reago-dev/reago/pkg/features/storage"
	"github.com/reago-dev/reago/pkg/features/watch"
	"github.com/reago-dev/reago/pkg/inspect"
	"github.com/reago-dev/reago/pkg/reago"
)

// demoSettings is the persisted demo state; Ticks survives restarts.
type demoSettings struct {
	Theme string `json:"theme"`
	Ticks int    `json:"ticks"`
}

// demoClient is the process-wide query client, built on first use.
var demoClient = state.NewGlobal(func(owner *reago.Owner) *query.Client {
	client := query.NewClient(query.WithMetrics(query.NewMetrics()))
	query.ProvideClient(owner, client)
	return client
})

func demoCmd() *cobra.Command {
	var (
		addr     string
		dataDir  string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a live demo wired to the inspector",
		Long: `Run a self-contained demo of the library.

The demo wires a counter signal, a derived memo, a persisted settings
value, an undo history, and a query client with a simulated fetcher,
then serves the inspector over HTTP and WebSocket until interrupted.

Examples:
  reago demo
  reago demo --addr=:8080
  reago demo --interval=500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(addr, dataDir, interval)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":7676", "Inspector listen address")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", ".reago-demo", "Directory for persisted demo state")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 2*time.Second, "Simulated activity interval")

	return cmd
}

func runDemo(addr, dataDir string, interval time.Duration) error {
	printBanner()
	fmt.Println("  demo")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reactive core: a counter and a derived memo.
	counter := reago.NewSignal(0)
	doubled := reago.NewMemo(func() int { return counter.Get() * 2 }, counter)

	// Persisted settings, file-backed when possible.
	var backend storage.Backend
	if fileBackend, err := storage.NewFileBackend(dataDir); err != nil {
		warn("cannot use %s (%v), keeping settings in memory", dataDir, err)
		backend = storage.NewMemoryBackend()
	} else {
		backend = fileBackend
	}
	settings := storage.New(backend, "settings",
		demoSettings{Theme: "dark"}, storage.WithContext(ctx))
	defer settings.Stop()
	if prior := settings.Get().Ticks; prior > 0 {
		info("resuming after %d persisted ticks", prior)
	}

	// Undo history over the counter.
	hist := history.Track(counter, history.WithCapacity(50))
	defer hist.Stop()

	// A debounced report of where the counter settles after a burst.
	settle := limiter.NewDebounced(func(n int) {
		info("counter settled at %d", n)
	}, reago.Value(500*time.Millisecond))
	defer settle.Stop()
	counterWatch := watch.New(counter, func(n, _ int) { settle.Call(n) })
	defer counterWatch.Stop()

	// Query cache with a simulated fetcher.
	client := demoClient.Get()
	q := query.New(client, query.K("status"), func(ctx context.Context) (string, error) {
		time.Sleep(150 * time.Millisecond) // Simulated upstream latency
		return fmt.Sprintf("tick %d at %s", counter.Get(), time.Now().Format(time.TimeOnly)), nil
	})
	defer q.Stop()

	// Inspector wiring.
	reg := inspect.NewRegistry()
	reg.Register("counter", func() any { return counter.Get() })
	reg.Register("doubled", func() any { return doubled.Get() })
	reg.Register("settings", func() any { return settings.Get() })
	reg.Register("history", func() any {
		return map[string]any{
			"len":     hist.Len(),
			"index":   hist.Index(),
			"canUndo": hist.CanUndo(),
			"canRedo": hist.CanRedo(),
		}
	})
	reg.AttachClient("demo", client)

	srv := inspect.NewServer(inspect.ServerOptions{
		Addr:     addr,
		Registry: reg,
	})

	// Simulated activity: ticks, periodic invalidations, occasional undos.
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				counter.Update(func(n int) int { return n + 1 })
				settings.Update(func(s demoSettings) demoSettings {
					s.Ticks++
					return s
				})
				tick := counter.Get()
				if tick%3 == 0 {
					client.InvalidateQuery(query.K("status"))
				}
				if tick%7 == 0 && hist.CanUndo() {
					hist.Undo()
					info("undo: counter back to %d", counter.Get())
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		settings.Flush()
		cancel()
		srv.Stop()
	}()

	host := displayHost(addr)
	success("Inspector running at http://%s", host)
	info("State:   http://%s/api/state", host)
	info("Queries: http://%s/api/queries", host)
	info("Metrics: http://%s/metrics", host)
	info("Events:  ws://%s/ws", host)
	fmt.Println()

	return srv.Start(ctx)
}

// displayHost turns a listen address into something clickable.
func displayHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
