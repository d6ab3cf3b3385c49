package amqp

import (
	"encoding/json"
	"time"
)

// Message operations understood by the export worker.
const (
	OpSync   = "sync"
	OpDelete = "delete"
)

// TransactionSyncMessage is the lightweight event published after a local
// transaction write. It carries only the ID and version, the worker fetches
// the full row from the database.
type TransactionSyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewTransactionDeleteMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		msg.Op = OpSync
	}
	return &msg, nil
}
