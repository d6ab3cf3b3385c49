package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"financas/internal/core"
)

const recurrenceColumns = `id, owner_id, title, kind, category, amount, due_day, start_date, duration_months, active, created_at, updated_at`

func scanRecurrence(row interface{ Scan(...any) error }) (core.RecurrenceDefinition, error) {
	var (
		d         core.RecurrenceDefinition
		amountStr string
		startStr  string
	)
	err := row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Kind, &d.Category, &amountStr,
		&d.DueDay, &startStr, &d.DurationMonths, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return core.RecurrenceDefinition{}, err
	}
	if d.Amount, err = parseAmount(amountStr); err != nil {
		return core.RecurrenceDefinition{}, err
	}
	if d.Start, err = time.Parse(dateLayout, startStr); err != nil {
		return core.RecurrenceDefinition{}, fmt.Errorf("corrupt start date %q: %w", startStr, err)
	}
	return d, nil
}

func (r *SQLiteRepository) CreateRecurrence(ctx context.Context, d *core.RecurrenceDefinition) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurrences (owner_id, title, kind, category, amount, due_day, start_date, duration_months, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.OwnerID, d.Title, string(d.Kind), string(d.Category), core.AmountString(d.Amount),
		d.DueDay, d.Start.Format(dateLayout), d.DurationMonths, d.Active, now, now)
	if err != nil {
		return fmt.Errorf("insert recurrence: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("recurrence id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) GetRecurrence(ctx context.Context, ownerID, id int64) (core.RecurrenceDefinition, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recurrenceColumns+` FROM recurrences
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	d, err := scanRecurrence(row)
	if err == sql.ErrNoRows {
		return core.RecurrenceDefinition{}, ErrNotFound
	}
	if err != nil {
		return core.RecurrenceDefinition{}, fmt.Errorf("get recurrence: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) UpdateRecurrence(ctx context.Context, d *core.RecurrenceDefinition) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurrences
		SET title = ?, kind = ?, category = ?, amount = ?, due_day = ?, start_date = ?, duration_months = ?, active = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		d.Title, string(d.Kind), string(d.Category), core.AmountString(d.Amount),
		d.DueDay, d.Start.Format(dateLayout), d.DurationMonths, d.Active, now, d.ID, d.OwnerID)
	if err != nil {
		return fmt.Errorf("update recurrence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	d.UpdatedAt = now
	return nil
}

// SetRecurrenceActive flips the active flag and returns the new state.
func (r *SQLiteRepository) SetRecurrenceActive(ctx context.Context, ownerID, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurrences SET active = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		active, time.Now().UTC(), id, ownerID)
	if err != nil {
		return fmt.Errorf("toggle recurrence: %w", err)
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

// DeleteRecurrence removes a definition. Linked transactions survive with
// recurrence_id set NULL by the foreign key.
func (r *SQLiteRepository) DeleteRecurrence(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM recurrences WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete recurrence: %w", err)
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

// ListRecurrences returns all the owner's definitions, active first.
func (r *SQLiteRepository) ListRecurrences(ctx context.Context, ownerID int64) ([]core.RecurrenceDefinition, error) {
	return r.listRecurrences(ctx, `
		SELECT `+recurrenceColumns+` FROM recurrences
		WHERE owner_id = ?
		ORDER BY active DESC, title`, ownerID)
}

// ListActiveRecurrences returns only definitions with active = true, the
// materializer's working set.
func (r *SQLiteRepository) ListActiveRecurrences(ctx context.Context, ownerID int64) ([]core.RecurrenceDefinition, error) {
	return r.listRecurrences(ctx, `
		SELECT `+recurrenceColumns+` FROM recurrences
		WHERE owner_id = ? AND active = 1
		ORDER BY id`, ownerID)
}

func (r *SQLiteRepository) listRecurrences(ctx context.Context, query string, args ...any) ([]core.RecurrenceDefinition, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurrences: %w", err)
	}
	defer rows.Close()

	var out []core.RecurrenceDefinition
	for rows.Next() {
		d, err := scanRecurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurrence: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
