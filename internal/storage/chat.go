package storage

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
)

func (r *SQLiteRepository) InsertChatMessage(ctx context.Context, m *core.ChatMessage) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (owner_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		m.OwnerID, m.Role, m.Content, now)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("chat message id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// ListChatMessages returns the owner's exchange history, oldest first.
func (r *SQLiteRepository) ListChatMessages(ctx context.Context, ownerID int64, limit int) ([]core.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, role, content, created_at
		FROM chat_messages
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var out []core.ChatMessage
	for rows.Next() {
		var m core.ChatMessage
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}
