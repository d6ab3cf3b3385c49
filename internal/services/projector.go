package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
)

// ProjectionSource provides the two reads the projector needs: the month
// window and the full paid history up to a date.
type ProjectionSource interface {
	ListTransactionsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]core.Transaction, error)
	ListPaidThrough(ctx context.Context, ownerID int64, end time.Time) ([]core.Transaction, error)
}

// Projector derives the reporting figures for a month window. Pure read: it
// never writes, and it sees any rows the materializer created earlier in the
// same request.
type Projector struct {
	transactions ProjectionSource
}

func NewProjector(transactions ProjectionSource) *Projector {
	return &Projector{transactions: transactions}
}

// Project computes the figures for the inclusive [start, end] window. All
// sums are exact decimal arithmetic; an empty window sums to exact zero.
//
// The historical balance deliberately scans the whole paid history up to the
// window end rather than the window alone: it is the cumulative cash position
// as of that date, independent of the manually-kept account balance.
func (p *Projector) Project(ctx context.Context, ownerID int64, start, end time.Time) (core.Figures, error) {
	f := core.ZeroFigures()

	window, err := p.transactions.ListTransactionsInRange(ctx, ownerID, start, end)
	if err != nil {
		return f, fmt.Errorf("list window transactions: %w", err)
	}
	for _, t := range window {
		switch {
		case t.Status == core.StatusPending:
			f.PendingTotal = f.PendingTotal.Add(t.Amount)
		case t.Kind == core.Income:
			f.PaidIncome = f.PaidIncome.Add(t.Amount)
		default:
			f.PaidExpense = f.PaidExpense.Add(t.Amount)
		}
	}

	history, err := p.transactions.ListPaidThrough(ctx, ownerID, end)
	if err != nil {
		return f, fmt.Errorf("list paid history: %w", err)
	}
	for _, t := range history {
		if t.Kind == core.Income {
			f.HistoricalBalance = f.HistoricalBalance.Add(t.Amount)
		} else {
			f.HistoricalBalance = f.HistoricalBalance.Sub(t.Amount)
		}
	}

	f.CommittedBalance = f.HistoricalBalance.Sub(f.PendingTotal)
	return f, nil
}
