package services

import (
	"context"

	"financas/internal/core"
)

// RecurrenceStore is the owner-scoped CRUD surface for definitions.
type RecurrenceStore interface {
	CreateRecurrence(ctx context.Context, d *core.RecurrenceDefinition) error
	GetRecurrence(ctx context.Context, ownerID, id int64) (core.RecurrenceDefinition, error)
	UpdateRecurrence(ctx context.Context, d *core.RecurrenceDefinition) error
	SetRecurrenceActive(ctx context.Context, ownerID, id int64, active bool) error
	DeleteRecurrence(ctx context.Context, ownerID, id int64) error
	ListRecurrences(ctx context.Context, ownerID int64) ([]core.RecurrenceDefinition, error)
}

// RecurrenceService applies validation and write-time normalization around
// the definition store. Deleting a definition never touches the transactions
// it materialized.
type RecurrenceService struct {
	store RecurrenceStore
}

func NewRecurrenceService(store RecurrenceStore) *RecurrenceService {
	return &RecurrenceService{store: store}
}

func (s *RecurrenceService) Create(ctx context.Context, d *core.RecurrenceDefinition) error {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}
	return s.store.CreateRecurrence(ctx, d)
}

func (s *RecurrenceService) Update(ctx context.Context, d *core.RecurrenceDefinition) error {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}
	return s.store.UpdateRecurrence(ctx, d)
}

// Toggle flips the active flag and returns the new state.
func (s *RecurrenceService) Toggle(ctx context.Context, ownerID, id int64) (bool, error) {
	d, err := s.store.GetRecurrence(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	next := !d.Active
	if err := s.store.SetRecurrenceActive(ctx, ownerID, id, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *RecurrenceService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteRecurrence(ctx, ownerID, id)
}

func (s *RecurrenceService) List(ctx context.Context, ownerID int64) ([]core.RecurrenceDefinition, error) {
	return s.store.ListRecurrences(ctx, ownerID)
}
