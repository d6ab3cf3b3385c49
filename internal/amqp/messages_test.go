package amqp

import (
	"testing"
)

func TestNewTransactionSyncMessage(t *testing.T) {
	msg := NewTransactionSyncMessage(42, 3)
	if msg.Op != OpSync {
		t.Errorf("Op = %q, want %q", msg.Op, OpSync)
	}
	if msg.ID != 42 || msg.Version != 3 {
		t.Errorf("ID/Version = %d/%d, want 42/3", msg.ID, msg.Version)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewTransactionDeleteMessage(t *testing.T) {
	msg := NewTransactionDeleteMessage(7)
	if msg.Op != OpDelete {
		t.Errorf("Op = %q, want %q", msg.Op, OpDelete)
	}
	if msg.ID != 7 {
		t.Errorf("ID = %d, want 7", msg.ID)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	original := NewTransactionSyncMessage(10, 2)
	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := TransactionSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Op != original.Op || decoded.ID != original.ID || decoded.Version != original.Version {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestFromJSONDefaultsOpToSync(t *testing.T) {
	msg, err := TransactionSyncMessageFromJSON([]byte(`{"id": 5, "version": 1}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if msg.Op != OpSync {
		t.Errorf("Op = %q, want %q for legacy payloads", msg.Op, OpSync)
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
