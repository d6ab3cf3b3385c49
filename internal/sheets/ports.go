package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionExporter mirrors ledger rows into a spreadsheet. Upsert is
	// keyed by the transaction ID so replays of the same event are harmless.
	TransactionExporter interface {
		UpsertTransaction(ctx context.Context, t core.Transaction) error
		RemoveTransaction(ctx context.Context, id int64) error
	}
)
