package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// GoalRepository persists goals and user-defined goal types.
// Every operation is scoped to the owning user.
type GoalRepository interface {
	// ListTypes returns the user's own goal types ordered by creation time.
	// Built-in types are not stored.
	ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error)

	CreateType(ctx context.Context, goalType *model.GoalType) error

	// UpdateType renames or recolors a type. Returns ErrGoalTypeNotFound if
	// the type does not exist for the user.
	UpdateType(ctx context.Context, goalType *model.GoalType) error

	// DeleteType returns ErrGoalTypeNotFound if nothing was deleted.
	DeleteType(ctx context.Context, userID, id uuid.UUID) error

	// List returns the user's goals, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)

	Create(ctx context.Context, goal *model.Goal) error

	// Update applies the set fields of update and returns the stored goal.
	// Returns ErrGoalNotFound if the goal does not exist for the user.
	Update(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error)

	// Delete returns ErrGoalNotFound if nothing was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
