package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/amqp"
	"financas/internal/config"
	apphttp "financas/internal/http"
	"financas/internal/integrations/assistant"
	"financas/internal/integrations/coinmarketcap"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage"
)

func main() {
	_ = godotenv.Load()
	applog.Setup("financas-api")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The export pipeline is optional. Without an AMQP URL every write stays
	// local and the ledger works exactly the same.
	var events services.EventPublisher
	if cfg.ExportEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		slog.Info("Export pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	materializer := services.NewMaterializer(repo, repo)
	projector := services.NewProjector(repo)

	cmc := coinmarketcap.NewClient(cfg.CMCBaseURL, cfg.CMCAPIKey)
	responder := assistant.NewClient(cfg.AssistantBaseURL, cfg.AssistantAPIKey, cfg.AssistantModel)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:        services.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL),
		Ledger:      services.NewLedgerService(repo, materializer, projector, events),
		Recurrences: services.NewRecurrenceService(repo),
		Account:     services.NewAccountService(repo),
		Goals:       services.NewGoalService(repo),
		Snapshots:   services.NewSnapshotService(cmc, repo),
		Chat:        services.NewChatService(responder, repo),
		StoragePing: repo,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting API server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
