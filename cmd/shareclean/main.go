package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stationops/shareclean/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Interrupts cancel the run's context so any open mount is released
	// before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Execute(ctx, version)
	stop()
	os.Exit(code)
}
