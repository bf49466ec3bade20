package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

var (
	// ErrBuiltinGoalType is returned when modifying one of the default goal types.
	ErrBuiltinGoalType = errors.New("built-in goal types cannot be modified")

	// ErrUnknownGoalType is returned when a goal references a type the user cannot see.
	ErrUnknownGoalType = errors.New("goal type does not exist")
)

// GoalService defines the interface for goal tracking operations.
// Every operation is scoped to userID.
type GoalService interface {
	// ListTypes returns the built-in types followed by the user's own types.
	ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error)
	CreateType(ctx context.Context, userID uuid.UUID, name string, color *string) (*model.GoalType, error)
	UpdateType(ctx context.Context, userID, id uuid.UUID, name string, color *string) (*model.GoalType, error)
	DeleteType(ctx context.Context, userID, id uuid.UUID) error

	ListGoals(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)
	CreateGoal(ctx context.Context, userID uuid.UUID, params model.NewGoalParams) (*model.Goal, error)
	UpdateGoal(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error)
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) error
}

type goalService struct {
	repo     repository.GoalRepository
	builtins []model.GoalType
}

// NewGoalService creates a new GoalService instance.
func NewGoalService(repo repository.GoalRepository) GoalService {
	return &goalService{
		repo:     repo,
		builtins: model.DefaultGoalTypes(),
	}
}

func (s *goalService) isBuiltin(id uuid.UUID) bool {
	for _, bt := range s.builtins {
		if bt.ID == id {
			return true
		}
	}
	return false
}

func (s *goalService) ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error) {
	own, err := s.repo.ListTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goal types: %w", err)
	}

	types := make([]*model.GoalType, 0, len(s.builtins)+len(own))
	for i := range s.builtins {
		bt := s.builtins[i]
		types = append(types, &bt)
	}
	return append(types, own...), nil
}

func (s *goalService) CreateType(ctx context.Context, userID uuid.UUID, name string, color *string) (*model.GoalType, error) {
	goalType, err := model.NewGoalType(userID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateType(ctx, goalType); err != nil {
		return nil, fmt.Errorf("create goal type: %w", err)
	}

	return goalType, nil
}

func (s *goalService) UpdateType(ctx context.Context, userID, id uuid.UUID, name string, color *string) (*model.GoalType, error) {
	if s.isBuiltin(id) {
		return nil, ErrBuiltinGoalType
	}

	goalType, err := model.NewGoalType(userID, name, color)
	if err != nil {
		return nil, err
	}
	goalType.ID = id

	if err := s.repo.UpdateType(ctx, goalType); err != nil {
		return nil, fmt.Errorf("update goal type: %w", err)
	}

	// Reload to report the stored creation time.
	own, err := s.repo.ListTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goal types: %w", err)
	}
	for _, t := range own {
		if t.ID == id {
			return t, nil
		}
	}

	return goalType, nil
}

func (s *goalService) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	if s.isBuiltin(id) {
		return ErrBuiltinGoalType
	}

	if err := s.repo.DeleteType(ctx, userID, id); err != nil {
		return fmt.Errorf("delete goal type: %w", err)
	}

	return nil
}

func (s *goalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (s *goalService) CreateGoal(ctx context.Context, userID uuid.UUID, params model.NewGoalParams) (*model.Goal, error) {
	goal, err := model.NewGoal(userID, params)
	if err != nil {
		return nil, err
	}

	if err := s.checkTypeVisible(ctx, userID, goal.TypeID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	return goal, nil
}

// checkTypeVisible returns ErrUnknownGoalType unless typeID is built-in or owned by userID.
func (s *goalService) checkTypeVisible(ctx context.Context, userID, typeID uuid.UUID) error {
	if s.isBuiltin(typeID) {
		return nil
	}

	own, err := s.repo.ListTypes(ctx, userID)
	if err != nil {
		return fmt.Errorf("list goal types: %w", err)
	}
	for _, t := range own {
		if t.ID == typeID {
			return nil
		}
	}
	return ErrUnknownGoalType
}

func (s *goalService) UpdateGoal(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	goal, err := s.repo.Update(ctx, userID, id, update)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
