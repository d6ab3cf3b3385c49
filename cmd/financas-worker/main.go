package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/sheets"
	gsheet "financas/internal/sheets/google"
	mem "financas/internal/sheets/memory"
	"financas/internal/storage"
	"financas/internal/worker"
)

func main() {
	_ = godotenv.Load()
	applog.Setup("financas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.ExportEnabled() {
		slog.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without spreadsheet credentials rows land in an in-memory sink, which
	// keeps the pipeline runnable in development.
	var exporter sheets.TransactionExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			slog.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		slog.Info("Exporting to Google Sheets", "spreadsheet", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		exporter = mem.New()
		slog.Warn("GOOGLE_SPREADSHEET_ID not set, exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, exporter, cfg.SyncBatchSize)

	if err := exportWorker.StartupSyncCheck(ctx); err != nil {
		slog.Error("Startup sync check failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Consuming export events", "queue", cfg.AMQPQueue)
		return amqpClient.ConsumeMessages(ctx, func(msg *amqp.TransactionSyncMessage) error {
			return exportWorker.HandleMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := exportWorker.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				}
			}
		}
	})

	slog.Info("Export worker started", "interval", cfg.SyncInterval.String(), "batch_size", cfg.SyncBatchSize)
	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Worker stopped gracefully")
}
