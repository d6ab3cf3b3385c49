package services

import (
	"context"
	"errors"
	"testing"

	"financas/internal/core"
)

type fakeResponder struct {
	reply string
	err   error
}

func (f *fakeResponder) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

type fakeChatStore struct {
	messages []core.ChatMessage
}

func (f *fakeChatStore) InsertChatMessage(_ context.Context, m *core.ChatMessage) error {
	m.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChatStore) ListChatMessages(_ context.Context, ownerID int64, limit int) ([]core.ChatMessage, error) {
	var out []core.ChatMessage
	for _, m := range f.messages {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func TestChatAskStoresBothSides(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewChatService(&fakeResponder{reply: "Track your spending weekly."}, store)

	reply, err := svc.Ask(context.Background(), 1, "How do I start a budget?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Role != core.RoleAssistant {
		t.Errorf("reply role = %q, want assistant", reply.Role)
	}
	if reply.Content != "Track your spending weekly." {
		t.Errorf("reply content = %q", reply.Content)
	}
	if len(store.messages) != 2 {
		t.Fatalf("stored %d messages, want 2", len(store.messages))
	}
	if store.messages[0].Role != core.RoleUser || store.messages[1].Role != core.RoleAssistant {
		t.Errorf("stored roles = %q, %q; want user then assistant",
			store.messages[0].Role, store.messages[1].Role)
	}
}

func TestChatAskRejectsEmptyPrompt(t *testing.T) {
	svc := NewChatService(&fakeResponder{}, &fakeChatStore{})
	if _, err := svc.Ask(context.Background(), 1, "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("err = %v, want ErrEmptyPrompt", err)
	}
}

func TestChatAskKeepsUserMessageOnFailure(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewChatService(&fakeResponder{err: errors.New("upstream down")}, store)

	if _, err := svc.Ask(context.Background(), 1, "hello"); err == nil {
		t.Fatal("expected error when assistant fails")
	}
	if len(store.messages) != 1 || store.messages[0].Role != core.RoleUser {
		t.Fatalf("stored %d messages, want just the user message", len(store.messages))
	}
}

func TestChatHistoryIsScopedToOwner(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewChatService(&fakeResponder{reply: "ok"}, store)

	if _, err := svc.Ask(context.Background(), 1, "mine"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if _, err := svc.Ask(context.Background(), 2, "theirs"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	history, err := svc.History(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d messages, want 2", len(history))
	}
	for _, m := range history {
		if m.OwnerID != 1 {
			t.Fatalf("history leaked message for owner %d", m.OwnerID)
		}
	}
}
