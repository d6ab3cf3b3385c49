package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"financas/internal/core"
)

// Responder produces an assistant reply for a user prompt.
type Responder interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChatStore persists the per-user conversation history.
type ChatStore interface {
	InsertChatMessage(ctx context.Context, m *core.ChatMessage) error
	ListChatMessages(ctx context.Context, ownerID int64, limit int) ([]core.ChatMessage, error)
}

const assistantSystemPrompt = "You are a personal finance assistant. " +
	"Answer questions about budgeting, saving, investing, debt and everyday money management. " +
	"If the question is not about personal finance, politely say you can only help with finance topics. " +
	"Keep answers short and practical."

var ErrEmptyPrompt = errors.New("prompt is empty")

// ChatService relays user prompts to the assistant backend and keeps the
// conversation history per owner.
type ChatService struct {
	responder Responder
	store     ChatStore
}

func NewChatService(responder Responder, store ChatStore) *ChatService {
	return &ChatService{responder: responder, store: store}
}

// Ask sends the prompt to the assistant and stores both sides of the
// exchange. The user message is persisted even when the assistant call
// fails, so history reflects what was actually asked.
func (s *ChatService) Ask(ctx context.Context, ownerID int64, prompt string) (core.ChatMessage, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return core.ChatMessage{}, ErrEmptyPrompt
	}

	userMsg := core.ChatMessage{
		OwnerID:   ownerID,
		Role:      core.RoleUser,
		Content:   prompt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertChatMessage(ctx, &userMsg); err != nil {
		return core.ChatMessage{}, fmt.Errorf("storing user message: %w", err)
	}

	reply, err := s.responder.Complete(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "assistant request failed", "error", err)
		return core.ChatMessage{}, fmt.Errorf("assistant request: %w", err)
	}

	assistantMsg := core.ChatMessage{
		OwnerID:   ownerID,
		Role:      core.RoleAssistant,
		Content:   strings.TrimSpace(reply),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertChatMessage(ctx, &assistantMsg); err != nil {
		return core.ChatMessage{}, fmt.Errorf("storing assistant message: %w", err)
	}
	return assistantMsg, nil
}

// History returns the conversation in chronological order.
func (s *ChatService) History(ctx context.Context, ownerID int64, limit int) ([]core.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.ListChatMessages(ctx, ownerID, limit)
}
