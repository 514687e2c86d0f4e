package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐┌─┐
  ├┬┘├┤ ├─┤│ ┬│ │
  ┴└─└─┘┴ ┴└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "reago",
		Short: "Reactive state utilities for Go",
		Long: `Reago is a library of reactive state utilities for Go.

Signals, memos, and watchers with explicit subscriptions, plus the
pieces real applications hang off them:

  • Debounce and throttle rate limiters
  • Storage-backed values (memory, file, bbolt, S3)
  • Undo/redo history tracking
  • An async query/mutation cache with invalidation
  • Global and shared scoped state
  • A live inspector with WebSocket event streaming`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Reago ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
