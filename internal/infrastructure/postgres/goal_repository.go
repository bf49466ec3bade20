package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

const goalColumns = `id, type_id, user_id, name, summary, description_markdown, status, priority, due_date, notify, created_at, updated_at`

// GoalRepository implements repository.GoalRepository using PostgreSQL.
type GoalRepository struct {
	db DBTX
}

// NewGoalRepository creates a new GoalRepository instance.
func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListTypes returns the user's own goal types, oldest first.
func (r *GoalRepository) ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error) {
	const query = `
		SELECT id, user_id, name, color, created_at
		FROM goal_types
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableGoalTypes).Inc()
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal types: %w", err)
	}
	defer rows.Close()

	types := make([]*model.GoalType, 0)
	for rows.Next() {
		gt := model.GoalType{IsDeletable: true}
		if err := rows.Scan(&gt.ID, &gt.UserID, &gt.Name, &gt.Color, &gt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal type: %w", err)
		}
		types = append(types, &gt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal types: %w", err)
	}

	return types, nil
}

// CreateType persists a user-defined goal type.
func (r *GoalRepository) CreateType(ctx context.Context, gt *model.GoalType) error {
	const query = `
		INSERT INTO goal_types (id, user_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableGoalTypes).Inc()
	if _, err := r.db.Exec(ctx, query, gt.ID, gt.UserID, gt.Name, gt.Color, gt.CreatedAt); err != nil {
		return fmt.Errorf("failed to create goal type: %w", err)
	}

	return nil
}

// UpdateType renames or recolors a goal type owned by gt.UserID.
func (r *GoalRepository) UpdateType(ctx context.Context, gt *model.GoalType) error {
	const query = `
		UPDATE goal_types
		SET name = $3, color = $4
		WHERE id = $1 AND user_id = $2
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableGoalTypes).Inc()
	tag, err := r.db.Exec(ctx, query, gt.ID, gt.UserID, gt.Name, gt.Color)
	if err != nil {
		return fmt.Errorf("failed to update goal type: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrGoalTypeNotFound
	}

	return nil
}

// DeleteType removes a goal type owned by userID.
func (r *GoalRepository) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	const query = `DELETE FROM goal_types WHERE id = $1 AND user_id = $2`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableGoalTypes).Inc()
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal type: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrGoalTypeNotFound
	}

	return nil
}

// List returns the user's goals, newest first.
func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableGoals).Inc()
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*model.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// Create persists a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableGoals).Inc()
	_, err := r.db.Exec(ctx, query,
		goal.ID,
		goal.TypeID,
		goal.UserID,
		goal.Name,
		goal.Summary,
		goal.DescriptionMarkdown,
		goal.Status.String(),
		goal.Priority.String(),
		goal.DueDate,
		goal.Notify,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// updateGoalQuery pairs every updatable column with a (set, value) parameter
// couple. Unset columns keep their stored value.
const updateGoalQuery = `
	UPDATE goals SET
		name                 = CASE WHEN $3::boolean  THEN $4::varchar      ELSE name END,
		summary              = CASE WHEN $5::boolean  THEN $6::text         ELSE summary END,
		description_markdown = CASE WHEN $7::boolean  THEN $8::text         ELSE description_markdown END,
		status               = CASE WHEN $9::boolean  THEN $10::varchar     ELSE status END,
		priority             = CASE WHEN $11::boolean THEN $12::varchar     ELSE priority END,
		due_date             = CASE WHEN $13::boolean THEN $14::timestamptz ELSE due_date END,
		notify               = CASE WHEN $15::boolean THEN $16::boolean     ELSE notify END,
		updated_at           = now()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + goalColumns

// Update applies the set fields of update to a goal owned by userID.
func (r *GoalRepository) Update(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error) {
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableGoals).Inc()
	row := r.db.QueryRow(ctx, updateGoalQuery, updateGoalArgs(userID, id, update)...)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

func updateGoalArgs(userID, id uuid.UUID, u model.GoalUpdate) []any {
	return []any{
		id, userID,
		u.Name.Set, u.Name.Value,
		u.Summary.Set, u.Summary.Value,
		u.DescriptionMarkdown.Set, u.DescriptionMarkdown.Value,
		u.Status.Set, u.Status.Value.String(),
		u.Priority.Set, u.Priority.Value.String(),
		u.DueDate.Set, u.DueDate.Value,
		u.Notify.Set, u.Notify.Value,
	}
}

// Delete removes a goal owned by userID.
func (r *GoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const query = `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableGoals).Inc()
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrGoalNotFound
	}

	return nil
}

// scanGoal scans one row selected with goalColumns.
func scanGoal(row pgx.Row) (*model.Goal, error) {
	var (
		goal     model.Goal
		status   string
		priority string
	)

	err := row.Scan(
		&goal.ID,
		&goal.TypeID,
		&goal.UserID,
		&goal.Name,
		&goal.Summary,
		&goal.DescriptionMarkdown,
		&status,
		&priority,
		&goal.DueDate,
		&goal.Notify,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Status = model.GoalStatus(status)
	goal.Priority = model.Priority(priority)

	return &goal, nil
}

// Compile-time verification that GoalRepository implements repository.GoalRepository.
var _ repository.GoalRepository = (*GoalRepository)(nil)
