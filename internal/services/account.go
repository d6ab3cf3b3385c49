package services

import (
	"context"
	"strings"

	"financas/internal/core"

	"github.com/shopspring/decimal"
)

// ParseBalance parses a signed decimal balance string. Unlike
// core.ParseAmount it allows zero and negative values.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, core.ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, core.ErrInvalidAmount
	}
	return d, nil
}

// AccountStore reads and writes the single per-owner balance row.
type AccountStore interface {
	GetAccount(ctx context.Context, ownerID int64) (core.Account, error)
	UpdateAccountBalance(ctx context.Context, ownerID int64, balance decimal.Decimal) (core.Account, error)
}

// AccountService fronts the manually-reconciled balance. The ledger and the
// materializer never call this; only direct user edits do.
type AccountService struct {
	store AccountStore
}

func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store}
}

// Get lazily creates the account at zero on first access.
func (s *AccountService) Get(ctx context.Context, ownerID int64) (core.Account, error) {
	return s.store.GetAccount(ctx, ownerID)
}

// SetBalance overwrites the balance. Negative values are valid: an overdrawn
// account is the user's to record.
func (s *AccountService) SetBalance(ctx context.Context, ownerID int64, balance decimal.Decimal) (core.Account, error) {
	if !balance.Equal(balance.Round(2)) {
		return core.Account{}, core.ErrInvalidAmount
	}
	return s.store.UpdateAccountBalance(ctx, ownerID, balance)
}
