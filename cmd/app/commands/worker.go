package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/blocodev/wallethub/internal/app"
	"github.com/blocodev/wallethub/internal/config"
)

// RunWorker starts the outbox relay and the saga event listener.
// Both run until SIGINT/SIGTERM; a fatal error in either stops the other.
func RunWorker(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	relay, err := container.OutboxRelay()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox relay: %w", err)
	}

	listener, err := container.SagaListener()
	if err != nil {
		return fmt.Errorf("failed to initialize saga listener: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return relay.Start(groupCtx)
	})

	group.Go(func() error {
		return listener.Start(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker error: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}
