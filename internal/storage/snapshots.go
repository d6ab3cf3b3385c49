package storage

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
)

func (r *SQLiteRepository) InsertSnapshot(ctx context.Context, s *core.CryptoSnapshot) error {
	now := time.Now().UTC()
	if s.FetchedAt.IsZero() {
		s.FetchedAt = now
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO crypto_snapshots (owner_id, symbol, name, price, fiat, change_24h, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.OwnerID, s.Symbol, s.Name, s.Price.String(), s.Fiat, s.Change24h.String(), s.FetchedAt)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}
	s.ID = id
	return nil
}

// ListSnapshots returns the owner's snapshot history, newest first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, ownerID int64, limit int) ([]core.CryptoSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, symbol, name, price, fiat, change_24h, fetched_at
		FROM crypto_snapshots
		WHERE owner_id = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.CryptoSnapshot
	for rows.Next() {
		var (
			s         core.CryptoSnapshot
			priceStr  string
			changeStr string
		)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Symbol, &s.Name, &priceStr, &s.Fiat, &changeStr, &s.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if s.Price, err = parseAmount(priceStr); err != nil {
			return nil, err
		}
		if s.Change24h, err = parseAmount(changeStr); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
