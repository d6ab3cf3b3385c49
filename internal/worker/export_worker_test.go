package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/sheets/memory"
	"financas/internal/storage"
)

type fakeSource struct {
	rows    map[int64]core.Transaction
	pending []storage.PendingSyncTransaction
	synced  []int64
	failed  []int64
}

func (f *fakeSource) GetTransactionByID(_ context.Context, id int64) (core.Transaction, error) {
	t, ok := f.rows[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return t, nil
}

func (f *fakeSource) GetPendingSyncTransactions(_ context.Context, limit int) ([]storage.PendingSyncTransaction, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeSource) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeSource) MarkSyncError(_ context.Context, id int64) error {
	f.failed = append(f.failed, id)
	return nil
}

func sampleTx(id int64) core.Transaction {
	return core.Transaction{
		ID:       id,
		OwnerID:  1,
		Title:    "Rent",
		Kind:     core.Expense,
		Category: core.CategoryFixed,
		Amount:   decimal.RequireFromString("1200.00"),
		Date:     time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		Status:   core.StatusPaid,
	}
}

func TestHandleMessageSync(t *testing.T) {
	source := &fakeSource{rows: map[int64]core.Transaction{7: sampleTx(7)}}
	exporter := memory.New()
	w := NewExportWorker(source, exporter, 10)

	msg := amqp.NewTransactionSyncMessage(7, 1)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if _, ok := exporter.Get(7); !ok {
		t.Fatal("transaction was not exported")
	}
	if len(source.synced) != 1 || source.synced[0] != 7 {
		t.Fatalf("synced = %v, want [7]", source.synced)
	}
}

func TestHandleMessageDelete(t *testing.T) {
	exporter := memory.New()
	exporter.UpsertTransaction(context.Background(), sampleTx(7))
	w := NewExportWorker(&fakeSource{}, exporter, 10)

	msg := amqp.NewTransactionDeleteMessage(7)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if exporter.Len() != 0 {
		t.Fatal("transaction was not removed from export")
	}
}

func TestHandleMessageMissingRowIsNotAnError(t *testing.T) {
	w := NewExportWorker(&fakeSource{rows: map[int64]core.Transaction{}}, memory.New(), 10)

	msg := amqp.NewTransactionSyncMessage(99, 1)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage should swallow missing rows: %v", err)
	}
}

func TestHandleMessageUnknownOpIsDropped(t *testing.T) {
	w := NewExportWorker(&fakeSource{}, memory.New(), 10)
	if err := w.HandleMessage(context.Background(), &amqp.TransactionSyncMessage{Op: "bogus", ID: 1}); err != nil {
		t.Fatalf("unknown op must not requeue: %v", err)
	}
}

type failingExporter struct{}

func (failingExporter) UpsertTransaction(context.Context, core.Transaction) error {
	return errors.New("sheet unavailable")
}
func (failingExporter) RemoveTransaction(context.Context, int64) error { return nil }

func TestExportFailureMarksSyncError(t *testing.T) {
	source := &fakeSource{rows: map[int64]core.Transaction{7: sampleTx(7)}}
	w := NewExportWorker(source, failingExporter{}, 10)

	msg := amqp.NewTransactionSyncMessage(7, 1)
	if err := w.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected export error to propagate for requeue")
	}
	if len(source.failed) != 1 || source.failed[0] != 7 {
		t.Fatalf("failed = %v, want [7]", source.failed)
	}
}

func TestProcessPendingSweepsBacklog(t *testing.T) {
	source := &fakeSource{
		rows: map[int64]core.Transaction{
			1: sampleTx(1),
			2: sampleTx(2),
		},
		pending: []storage.PendingSyncTransaction{{ID: 1, Version: 1}, {ID: 2, Version: 3}},
	}
	exporter := memory.New()
	w := NewExportWorker(source, exporter, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if exporter.Len() != 2 {
		t.Fatalf("exported %d rows, want 2", exporter.Len())
	}
}

func TestStartupSyncCheckEmptyBacklog(t *testing.T) {
	w := NewExportWorker(&fakeSource{}, memory.New(), 10)
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
}
