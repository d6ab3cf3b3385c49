// Package memory is an in-memory TransactionExporter for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"sync"

	"financas/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows map[int64]core.Transaction
}

func New() *Store {
	return &Store{rows: make(map[int64]core.Transaction)}
}

func (s *Store) UpsertTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[t.ID] = t
	return nil
}

func (s *Store) RemoveTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// Get returns the stored row for inspection in tests.
func (s *Store) Get(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	return t, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
