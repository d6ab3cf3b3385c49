// Package worker mirrors ledger transactions into a spreadsheet. It consumes
// the AMQP events the API publishes and runs a periodic sweep over rows whose
// sync_status is still pending, so lost messages are eventually recovered.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/sheets"
	"financas/internal/storage"
)

// TransactionSource is the slice of the repository the worker reads from.
type TransactionSource interface {
	GetTransactionByID(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]storage.PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// ExportWorker pushes transaction rows to the configured exporter.
type ExportWorker struct {
	storage   TransactionSource
	exporter  sheets.TransactionExporter
	batchSize int
}

func NewExportWorker(storage TransactionSource, exporter sheets.TransactionExporter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleMessage processes one AMQP event. Returning an error requeues the
// delivery.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Op {
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg.ID)
	case amqp.OpSync:
		return w.exportByID(ctx, msg.ID)
	default:
		// Unknown ops are dropped, requeueing them would loop forever.
		slog.WarnContext(ctx, "Dropping message with unknown op", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) handleDelete(ctx context.Context, id int64) error {
	slog.InfoContext(ctx, "Processing delete event", "id", id)
	if err := w.exporter.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove transaction from export: %w", err)
	}
	return nil
}

func (w *ExportWorker) exportByID(ctx context.Context, id int64) error {
	tx, err := w.storage.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between publish and consume. The delete event will
			// clean up the sheet row.
			slog.WarnContext(ctx, "Transaction gone before export", "id", id)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}
	return w.export(ctx, tx)
}

func (w *ExportWorker) export(ctx context.Context, tx core.Transaction) error {
	if err := w.exporter.UpsertTransaction(ctx, tx); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("export transaction: %w", err)
	}
	if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
		// The export itself worked, the sweep will retry the mark.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", tx.ID,
		"title", tx.Title,
		"amount", core.AmountString(tx.Amount))
	return nil
}

// ProcessPending sweeps rows still marked pending. This is the backup path
// for lost AMQP messages.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	for _, p := range pending {
		if err := w.exportByID(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup, with a
// larger batch than the periodic sweep. Useful after worker downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.exportByID(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}
