package storage

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"

	"github.com/shopspring/decimal"
)

// GetAccount returns the owner's account, creating it with a zero balance on
// first access.
func (r *SQLiteRepository) GetAccount(ctx context.Context, ownerID int64) (core.Account, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (owner_id, balance, updated_at) VALUES (?, '0.00', ?)
		ON CONFLICT(owner_id) DO NOTHING`,
		ownerID, time.Now().UTC())
	if err != nil {
		return core.Account{}, fmt.Errorf("ensure account: %w", err)
	}

	var (
		a          core.Account
		balanceStr string
	)
	err = r.db.QueryRowContext(ctx, `
		SELECT owner_id, balance, updated_at FROM accounts WHERE owner_id = ?`,
		ownerID).Scan(&a.OwnerID, &balanceStr, &a.UpdatedAt)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	if a.Balance, err = parseAmount(balanceStr); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// UpdateAccountBalance overwrites the manually-reconciled balance. Negative
// values are allowed; the ledger never writes here.
func (r *SQLiteRepository) UpdateAccountBalance(ctx context.Context, ownerID int64, balance decimal.Decimal) (core.Account, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (owner_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
		ownerID, balance.StringFixed(2), now)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account balance: %w", err)
	}
	return core.Account{OwnerID: ownerID, Balance: balance, UpdatedAt: now}, nil
}
