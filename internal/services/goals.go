package services

import (
	"context"

	"financas/internal/core"
)

type GoalStore interface {
	CreateGoal(ctx context.Context, g *core.Goal) error
	UpdateGoal(ctx context.Context, g *core.Goal) error
	DeleteGoal(ctx context.Context, ownerID, id int64) error
	ListGoals(ctx context.Context, ownerID int64) ([]core.Goal, error)
}

// GoalService manages savings targets.
type GoalService struct {
	store GoalStore
}

func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store}
}

func (s *GoalService) Create(ctx context.Context, g *core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.store.CreateGoal(ctx, g)
}

func (s *GoalService) Update(ctx context.Context, g *core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.store.UpdateGoal(ctx, g)
}

func (s *GoalService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteGoal(ctx, ownerID, id)
}

func (s *GoalService) List(ctx context.Context, ownerID int64) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, ownerID)
}
