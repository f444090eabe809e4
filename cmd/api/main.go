// Command api serves the FlixLens dashboard and its JSON API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/di"
	"github.com/flixlens/flixlens/internal/logger"
)

func main() {
	injector := di.NewContainer()

	// The catalog loads during bootstrap, so a missing or malformed dataset
	// stops the process before anything listens.
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "flixlens: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	log.Info("Shutting down")
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
