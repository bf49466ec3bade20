package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalStatus is the completion state of a goal.
type GoalStatus string

const (
	GoalStatusActive GoalStatus = "active"
	GoalStatusDone   GoalStatus = "done"
)

func (s GoalStatus) IsValid() bool {
	return s == GoalStatusActive || s == GoalStatusDone
}

func (s GoalStatus) String() string {
	return string(s)
}

// Priority orders goals in the UI.
type Priority string

const (
	PriorityNone   Priority = "None"
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

var (
	ErrInvalidUserID     = errors.New("user ID cannot be nil")
	ErrInvalidTypeID     = errors.New("goal type ID cannot be nil")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNameTooLong       = errors.New("name exceeds maximum length of 255 characters")
	ErrInvalidPriority   = errors.New("priority must be one of None, Low, Medium, High")
	ErrInvalidGoalStatus = errors.New("status must be one of active, done")
	ErrNoUpdateFields    = errors.New("no update fields provided")
	ErrNullField         = errors.New("field cannot be null")
)

const maxNameLength = 255

// GoalType groups goals. Built-in types are shared by every user and cannot be deleted.
type GoalType struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Color       *string
	CreatedAt   time.Time
	IsDeletable bool
}

// Goal is a user's tracked objective.
type Goal struct {
	ID                  uuid.UUID
	TypeID              uuid.UUID
	UserID              uuid.UUID
	Name                string
	Summary             *string
	DescriptionMarkdown *string
	Status              GoalStatus
	Priority            Priority
	DueDate             *time.Time
	Notify              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

var builtinGoalTypeEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var builtinGoalTypes = []struct {
	name  string
	color string
}{
	{"Personal & Wellbeing", "#4ade80"},
	{"Career", "#38bdf8"},
	{"Financial", "#facc15"},
	{"Work", "#818cf8"},
	{"Moral", "#f472b6"},
}

// DefaultGoalTypes returns the built-in goal types.
// IDs are name-based so they stay stable across restarts.
func DefaultGoalTypes() []GoalType {
	types := make([]GoalType, 0, len(builtinGoalTypes))
	for _, bt := range builtinGoalTypes {
		color := bt.color
		types = append(types, GoalType{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("mediamind/goal-types/"+bt.name)),
			Name:        bt.name,
			Color:       &color,
			CreatedAt:   builtinGoalTypeEpoch,
			IsDeletable: false,
		})
	}
	return types
}

// NewGoalType creates a user-defined goal type.
func NewGoalType(userID uuid.UUID, name string, color *string) (*GoalType, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	return &GoalType{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Color:       color,
		CreatedAt:   time.Now(),
		IsDeletable: true,
	}, nil
}

// NewGoalParams holds the caller-supplied fields of a new goal.
type NewGoalParams struct {
	TypeID              uuid.UUID
	Name                string
	Summary             *string
	DescriptionMarkdown *string
	Priority            Priority
	DueDate             *time.Time
	Notify              bool
}

// NewGoal creates an active goal. An empty priority defaults to None.
func NewGoal(userID uuid.UUID, p NewGoalParams) (*Goal, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if p.TypeID == uuid.Nil {
		return nil, ErrInvalidTypeID
	}
	if err := validateName(p.Name); err != nil {
		return nil, err
	}
	if p.Priority == "" {
		p.Priority = PriorityNone
	}
	if !p.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	return &Goal{
		ID:                  uuid.New(),
		TypeID:              p.TypeID,
		UserID:              userID,
		Name:                p.Name,
		Summary:             p.Summary,
		DescriptionMarkdown: p.DescriptionMarkdown,
		Status:              GoalStatusActive,
		Priority:            p.Priority,
		DueDate:             p.DueDate,
		Notify:              p.Notify,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// GoalUpdate enumerates every updatable goal field. Unset fields keep their
// stored value; nullable fields may be cleared by setting them to nil.
type GoalUpdate struct {
	Name                Optional[string]
	Summary             Optional[*string]
	DescriptionMarkdown Optional[*string]
	Status              Optional[GoalStatus]
	Priority            Optional[Priority]
	DueDate             Optional[*time.Time]
	Notify              Optional[bool]
}

// IsEmpty reports whether no field is set.
func (u GoalUpdate) IsEmpty() bool {
	return !u.Name.Set &&
		!u.Summary.Set &&
		!u.DescriptionMarkdown.Set &&
		!u.Status.Set &&
		!u.Priority.Set &&
		!u.DueDate.Set &&
		!u.Notify.Set
}

// Validate checks the set fields.
func (u GoalUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrNoUpdateFields
	}
	switch {
	case u.Name.Null:
		return fmt.Errorf("name: %w", ErrNullField)
	case u.Status.Null:
		return fmt.Errorf("status: %w", ErrNullField)
	case u.Priority.Null:
		return fmt.Errorf("priority: %w", ErrNullField)
	case u.Notify.Null:
		return fmt.Errorf("notify: %w", ErrNullField)
	}
	if u.Name.Set {
		if err := validateName(u.Name.Value); err != nil {
			return err
		}
	}
	if u.Status.Set && !u.Status.Value.IsValid() {
		return ErrInvalidGoalStatus
	}
	if u.Priority.Set && !u.Priority.Value.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}
