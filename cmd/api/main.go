// Package main provides the entry point for the OpenShelf server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/openshelf/openshelf-server/internal/di"
	"github.com/openshelf/openshelf-server/internal/di/providers"
	"github.com/openshelf/openshelf-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts providers down in reverse dependency order: the
	// HTTP server stops accepting requests, then the broker closes its
	// streams, then the store flushes to disk.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Handles the container does not own directly.
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	log.Info("Goodbye")
}
