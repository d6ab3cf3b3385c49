package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
)

// TransactionStore is the full CRUD surface the ledger needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, ownerID, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t *core.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id int64) error
	ListMonthTransactions(ctx context.Context, ownerID int64, period string, category core.Category) ([]core.Transaction, error)
}

// EventPublisher pushes lightweight export events after local writes. A nil
// publisher means local-only operation.
type EventPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// MonthView bundles the result of the materialize-then-project pipeline for
// one viewed month.
type MonthView struct {
	Year         int
	Month        time.Month
	Materialized int
	Figures      core.Figures
	Items        []core.Transaction
}

// LedgerService owns transaction writes (with write-time normalization and
// the variable-category repeat expansion) and the month-view pipeline.
type LedgerService struct {
	store        TransactionStore
	materializer *Materializer
	projector    *Projector
	events       EventPublisher
}

func NewLedgerService(store TransactionStore, materializer *Materializer, projector *Projector, events EventPublisher) *LedgerService {
	return &LedgerService{
		store:        store,
		materializer: materializer,
		projector:    projector,
		events:       events,
	}
}

// ViewMonth runs the explicit two-step pipeline: materialize the month's
// recurrences, then project figures from the (possibly just-updated) ledger,
// then list the month's rows. Materialization failure does not hide the
// month: the view degrades to whatever is already stored.
func (s *LedgerService) ViewMonth(ctx context.Context, ownerID int64, year int, month time.Month, category core.Category) (MonthView, error) {
	view := MonthView{Year: year, Month: month}

	created, err := s.materializer.Materialize(ctx, ownerID, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Materialization failed, serving stored rows only",
			"year", year, "month", int(month), "error", err)
	}
	view.Materialized = created

	start, end := core.MonthWindow(year, month)
	figures, err := s.projector.Project(ctx, ownerID, start, end)
	if err != nil {
		return view, fmt.Errorf("project month: %w", err)
	}
	view.Figures = figures

	items, err := s.store.ListMonthTransactions(ctx, ownerID, core.Period(year, month), category)
	if err != nil {
		return view, fmt.Errorf("list month: %w", err)
	}
	view.Items = items
	return view, nil
}

// Create validates, normalizes and stores a transaction. When the category is
// variable and extraMonths >= 1, the saved row fans out into that many
// additional pending copies on subsequent months, day-of-month clamped. The
// fan-out happens once, at creation; it is not a recurrence.
func (s *LedgerService) Create(ctx context.Context, t *core.Transaction, extraMonths int) ([]core.Transaction, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	s.publishSync(ctx, t.ID, 1)

	if t.Category != core.CategoryVariable || extraMonths < 1 {
		return nil, nil
	}

	repeats := make([]core.Transaction, 0, extraMonths)
	for i := 1; i <= extraMonths; i++ {
		copyTx := core.Transaction{
			OwnerID:      t.OwnerID,
			RecurrenceID: t.RecurrenceID,
			Title:        t.Title,
			Kind:         t.Kind,
			Category:     t.Category,
			Amount:       t.Amount,
			Date:         core.AddMonthsClamped(t.Date, i),
			Status:       core.StatusPending,
			Note:         fmt.Sprintf("(auto-generated repeat %d of %d)", i, extraMonths),
		}
		if err := s.store.CreateTransaction(ctx, &copyTx); err != nil {
			return repeats, fmt.Errorf("create repeat %d of %d: %w", i, extraMonths, err)
		}
		s.publishSync(ctx, copyTx.ID, 1)
		repeats = append(repeats, copyTx)
	}

	slog.InfoContext(ctx, "Expanded variable transaction into future months",
		"transaction_id", t.ID, "extra_months", extraMonths)
	return repeats, nil
}

// Update rewrites an existing transaction after normalization.
func (s *LedgerService) Update(ctx context.Context, t *core.Transaction) error {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	s.publishSync(ctx, t.ID, 0)
	return nil
}

func (s *LedgerService) Get(ctx context.Context, ownerID, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, ownerID, id)
}

func (s *LedgerService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, ownerID, id); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.PublishTransactionDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete event", "id", id, "error", err)
		}
	}
	return nil
}

// publishSync is best effort: the local write already succeeded and the
// worker's periodic sweep recovers anything a lost message misses.
func (s *LedgerService) publishSync(ctx context.Context, id, version int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync event", "id", id, "error", err)
	}
}
