package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// Use stderr directly since the logger may not be available yet
		os.Stderr.WriteString("geosim: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
