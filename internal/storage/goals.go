package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"financas/internal/core"
)

const goalColumns = `id, owner_id, title, target_amount, saved_amount, deadline, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g           core.Goal
		targetStr   string
		savedStr    string
		deadlineStr sql.NullString
	)
	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &targetStr, &savedStr, &deadlineStr, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return core.Goal{}, err
	}
	if g.TargetAmount, err = parseAmount(targetStr); err != nil {
		return core.Goal{}, err
	}
	if g.SavedAmount, err = parseAmount(savedStr); err != nil {
		return core.Goal{}, err
	}
	if deadlineStr.Valid {
		d, err := time.Parse(dateLayout, deadlineStr.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("corrupt deadline %q: %w", deadlineStr.String, err)
		}
		g.Deadline = &d
	}
	return g, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (owner_id, title, target_amount, saved_amount, deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.OwnerID, g.Title, core.AmountString(g.TargetAmount), g.SavedAmount.StringFixed(2),
		nullableDate(g.Deadline), now, now)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("goal id: %w", err)
	}
	g.ID = id
	g.CreatedAt = now
	g.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g *core.Goal) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, target_amount = ?, saved_amount = ?, deadline = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		g.Title, core.AmountString(g.TargetAmount), g.SavedAmount.StringFixed(2),
		nullableDate(g.Deadline), now, g.ID, g.OwnerID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	g.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM goals WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
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

func (r *SQLiteRepository) ListGoals(ctx context.Context, ownerID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalColumns+` FROM goals WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
