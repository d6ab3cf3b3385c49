// Package services orchestrates the domain operations: materialization of
// recurrences into transactions, balance projection, and the CRUD surfaces
// the HTTP layer exposes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
)

// RecurrenceSource lists the active definitions the materializer walks.
type RecurrenceSource interface {
	ListActiveRecurrences(ctx context.Context, ownerID int64) ([]core.RecurrenceDefinition, error)
}

// MaterializedWriter is the guarded write path for recurrence-generated
// transactions. CreateMaterialized returns false when the uniqueness
// constraint already holds a row for the (owner, recurrence, period) key.
type MaterializedWriter interface {
	HasMaterialized(ctx context.Context, ownerID, recurrenceID int64, period string) (bool, error)
	CreateMaterialized(ctx context.Context, t *core.Transaction) (created bool, err error)
}

// Materializer ensures every active, in-window recurrence has exactly one
// transaction for a viewed month. It only ever inserts: existing rows are
// never updated or deleted, so a later edit of a definition does not
// retroactively change already-materialized months.
type Materializer struct {
	recurrences  RecurrenceSource
	transactions MaterializedWriter
}

func NewMaterializer(recurrences RecurrenceSource, transactions MaterializedWriter) *Materializer {
	return &Materializer{recurrences: recurrences, transactions: transactions}
}

// Materialize creates the missing transactions for the owner's month and
// returns how many were created. Safe to call on every month view: a second
// invocation for the same month creates zero rows. Failures on a single
// definition are logged and skipped so one bad row cannot block the rest.
func (m *Materializer) Materialize(ctx context.Context, ownerID int64, year int, month time.Month) (int, error) {
	defs, err := m.recurrences.ListActiveRecurrences(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list active recurrences: %w", err)
	}

	period := core.Period(year, month)
	created := 0

	for _, def := range defs {
		if !def.EligibleIn(year, month) {
			continue
		}

		exists, err := m.transactions.HasMaterialized(ctx, ownerID, def.ID, period)
		if err != nil {
			slog.ErrorContext(ctx, "Materialization existence check failed",
				"recurrence_id", def.ID, "period", period, "error", err)
			continue
		}
		if exists {
			continue
		}

		tx := m.instantiate(def, year, month)
		ok, err := m.transactions.CreateMaterialized(ctx, &tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurrence",
				"recurrence_id", def.ID, "period", period, "error", err)
			continue
		}
		if !ok {
			// Lost the race against a concurrent month view; the row is
			// there, which is all that matters.
			slog.DebugContext(ctx, "Recurrence already materialized concurrently",
				"recurrence_id", def.ID, "period", period)
			continue
		}

		created++
		slog.InfoContext(ctx, "Materialized recurrence",
			"recurrence_id", def.ID,
			"transaction_id", tx.ID,
			"period", period,
			"title", def.Title,
			"amount", core.AmountString(def.Amount))
	}

	return created, nil
}

// instantiate copies a definition into a concrete transaction for the target
// month: due day clamped to the month's length, salary coerced to paid
// income, everything else pending.
func (m *Materializer) instantiate(def core.RecurrenceDefinition, year int, month time.Month) core.Transaction {
	id := def.ID
	tx := core.Transaction{
		OwnerID:      def.OwnerID,
		RecurrenceID: &id,
		Title:        def.Title,
		Kind:         def.Kind,
		Category:     def.Category,
		Amount:       def.Amount,
		Date:         time.Date(year, month, core.ClampDay(def.DueDay, year, month), 0, 0, 0, 0, time.UTC),
		Status:       core.StatusPending,
		Note:         core.RecurrenceNote,
	}
	tx.Normalize()
	return tx
}
