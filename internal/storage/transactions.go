package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"financas/internal/core"
)

const transactionColumns = `id, owner_id, recurrence_id, title, kind, category, amount, date, status, note, created_at, updated_at`

const dateLayout = "2006-01-02"

// PendingSyncTransaction is the minimal row handed to the export worker.
type PendingSyncTransaction struct {
	ID      int64
	Version int64
}

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t            core.Transaction
		recurrenceID sql.NullInt64
		amountStr    string
		dateStr      string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &recurrenceID, &t.Title, &t.Kind, &t.Category,
		&amountStr, &dateStr, &t.Status, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	if recurrenceID.Valid {
		id := recurrenceID.Int64
		t.RecurrenceID = &id
	}
	if t.Amount, err = parseAmount(amountStr); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("corrupt date %q: %w", dateStr, err)
	}
	return t, nil
}

// CreateTransaction inserts a user-entered transaction and fills in the
// store-assigned fields (id, timestamps).
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (owner_id, recurrence_id, title, kind, category, amount, date, period, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.OwnerID, nullableID(t.RecurrenceID), t.Title, string(t.Kind), string(t.Category),
		core.AmountString(t.Amount), t.Date.Format(dateLayout), core.PeriodOf(t.Date),
		string(t.Status), t.Note, now, now)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// CreateMaterialized inserts a recurrence-generated transaction guarded by the
// (owner, recurrence, period) unique index. A conflicting concurrent insert is
// not an error: the write is silently discarded and false is returned.
func (r *SQLiteRepository) CreateMaterialized(ctx context.Context, t *core.Transaction) (bool, error) {
	if t.RecurrenceID == nil {
		return false, fmt.Errorf("materialized transaction requires a recurrence id")
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (owner_id, recurrence_id, title, kind, category, amount, date, period, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		t.OwnerID, *t.RecurrenceID, t.Title, string(t.Kind), string(t.Category),
		core.AmountString(t.Amount), t.Date.Format(dateLayout), core.PeriodOf(t.Date),
		string(t.Status), t.Note, now, now)
	if err != nil {
		return false, fmt.Errorf("insert materialized transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return true, nil
}

// HasMaterialized reports whether a transaction already exists for the
// recurrence in the given period. Cheap pre-check before CreateMaterialized.
func (r *SQLiteRepository) HasMaterialized(ctx context.Context, ownerID, recurrenceID int64, period string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM transactions
		WHERE owner_id = ? AND recurrence_id = ? AND period = ?`,
		ownerID, recurrenceID, period).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check materialized: %w", err)
	}
	return exists > 0, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction rewrites the caller-editable fields. Timestamps and the
// sync bookkeeping are store-managed: updated_at is bumped and the row is
// queued for re-export.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, kind = ?, category = ?, amount = ?, date = ?, period = ?, status = ?, note = ?,
		    sync_status = 'pending', version = version + 1, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		t.Title, string(t.Kind), string(t.Category), core.AmountString(t.Amount),
		t.Date.Format(dateLayout), core.PeriodOf(t.Date), string(t.Status), t.Note,
		now, t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMonthTransactions returns the owner's transactions for one period,
// newest first, optionally filtered by category.
func (r *SQLiteRepository) ListMonthTransactions(ctx context.Context, ownerID int64, period string, category core.Category) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = ? AND period = ?`
	args := []any{ownerID, period}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list month transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsInRange returns transactions with date inside the inclusive
// [start, end] window.
func (r *SQLiteRepository) ListTransactionsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE owner_id = ? AND date >= ? AND date <= ?
		ORDER BY date, id`,
		ownerID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListPaidThrough returns every paid transaction dated at or before end.
// This is the full-history scan behind the historical balance figure.
func (r *SQLiteRepository) ListPaidThrough(ctx context.Context, ownerID int64, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE owner_id = ? AND status = 'paid' AND date <= ?
		ORDER BY date, id`,
		ownerID, end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list paid transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetPendingSyncTransactions returns rows still waiting for export, oldest
// first. The worker's periodic sweep uses this as the lost-message backstop.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetTransactionByID fetches a row without owner scoping. Reserved for the
// export worker, which operates on the whole ledger.
func (r *SQLiteRepository) GetTransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
