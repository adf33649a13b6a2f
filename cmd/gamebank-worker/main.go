package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gamebank/internal/archive"
	gsheet "gamebank/internal/archive/google"
	archmem "gamebank/internal/archive/memory"
	"gamebank/internal/config"
	"gamebank/internal/events"
	applog "gamebank/internal/log"
	"gamebank/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting gamebank-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Archive target: Google Sheets when configured, otherwise an in-process
	// log-only writer so events still drain from the queue.
	var writer archive.SessionWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets archive enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		writer = archmem.New()
		logger.Info("Google Sheets disabled - archiving to memory only")
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return consumeLoop(ctx, cfg, writer, logger)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// consumeLoop keeps a consumer alive across broker restarts, waiting between
// reconnect attempts.
func consumeLoop(ctx context.Context, cfg *config.Config, writer archive.SessionWriter, logger *applog.Logger) error {
	for {
		if err := runConsumer(ctx, cfg, writer); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("Consumer stopped, reconnecting",
				"error", err, "retry_wait", cfg.ArchiveRetryWait.String())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.ArchiveRetryWait):
		}
	}
}

func runConsumer(ctx context.Context, cfg *config.Config, writer archive.SessionWriter) error {
	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	return worker.NewArchiveWorker(client, writer).Run(ctx)
}
