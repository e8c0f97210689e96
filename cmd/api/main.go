// Package main provides the entry point for the pressroom server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pressroom/internal/di"
	"github.com/listenupapp/pressroom/internal/di/providers"
	"github.com/listenupapp/pressroom/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Stop accepting requests before the stores go away.
	if serverHandle, err := do.Invoke[*providers.HTTPServerHandle](injector); err == nil {
		if err := serverHandle.Shutdown(); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}
	}

	// The DI container shuts the rest down in reverse dependency order.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("See you space cowboy...")
}
