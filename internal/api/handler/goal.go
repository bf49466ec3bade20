package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

// Request/Response types

type GoalTypeRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type GoalTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       *string `json:"color"`
	CreatedAt   string  `json:"created_at"`
	IsDeletable bool    `json:"is_deletable"`
}

type CreateGoalRequest struct {
	TypeID              string     `json:"type_id"`
	Name                string     `json:"name"`
	Summary             *string    `json:"summary"`
	DescriptionMarkdown *string    `json:"description_markdown"`
	Priority            string     `json:"priority"`
	DueDate             *time.Time `json:"due_date"`
	Notify              bool       `json:"notify"`
}

// UpdateGoalRequest distinguishes absent keys from explicit nulls.
type UpdateGoalRequest struct {
	Name                model.Optional[string]           `json:"name"`
	Summary             model.Optional[*string]          `json:"summary"`
	DescriptionMarkdown model.Optional[*string]          `json:"description_markdown"`
	Status              model.Optional[model.GoalStatus] `json:"status"`
	Priority            model.Optional[model.Priority]   `json:"priority"`
	DueDate             model.Optional[*time.Time]       `json:"due_date"`
	Notify              model.Optional[bool]             `json:"notify"`
}

func (r UpdateGoalRequest) toUpdate() model.GoalUpdate {
	return model.GoalUpdate{
		Name:                r.Name,
		Summary:             r.Summary,
		DescriptionMarkdown: r.DescriptionMarkdown,
		Status:              r.Status,
		Priority:            r.Priority,
		DueDate:             r.DueDate,
		Notify:              r.Notify,
	}
}

type GoalResponse struct {
	ID                  string  `json:"id"`
	TypeID              string  `json:"type_id"`
	Name                string  `json:"name"`
	Summary             *string `json:"summary"`
	DescriptionMarkdown *string `json:"description_markdown"`
	Status              string  `json:"status"`
	Priority            string  `json:"priority"`
	DueDate             *string `json:"due_date"`
	Notify              bool    `json:"notify"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// GoalHandler handles goal and goal type requests. All routes require Authenticate.
type GoalHandler struct {
	svc usecase.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(svc usecase.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

// ListTypes handles GET /v1/goals/types
func (h *GoalHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	types, err := h.svc.ListTypes(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]GoalTypeResponse, 0, len(types))
	for _, gt := range types {
		resp = append(resp, toGoalTypeResponse(gt))
	}
	JSON(w, http.StatusOK, resp)
}

// CreateType handles POST /v1/goals/types
func (h *GoalHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req GoalTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	gt, err := h.svc.CreateType(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toGoalTypeResponse(gt))
}

// UpdateType handles PUT /v1/goals/types/{id}
func (h *GoalHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typeID, ok := parseUUIDParam(w, chi.URLParam(r, "id"), "invalid_type_id", "Goal type ID must be a valid UUID")
	if !ok {
		return
	}

	var req GoalTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	gt, err := h.svc.UpdateType(r.Context(), userID, typeID, req.Name, req.Color)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toGoalTypeResponse(gt))
}

// DeleteType handles DELETE /v1/goals/types/{id}
func (h *GoalHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typeID, ok := parseUUIDParam(w, chi.URLParam(r, "id"), "invalid_type_id", "Goal type ID must be a valid UUID")
	if !ok {
		return
	}

	if err := h.svc.DeleteType(r.Context(), userID, typeID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.svc.ListGoals(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g))
	}
	JSON(w, http.StatusOK, resp)
}

// Create handles POST /v1/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	typeID, ok := parseUUIDParam(w, req.TypeID, "invalid_type_id", "Goal type ID must be a valid UUID")
	if !ok {
		return
	}

	goal, err := h.svc.CreateGoal(r.Context(), userID, model.NewGoalParams{
		TypeID:              typeID,
		Name:                req.Name,
		Summary:             req.Summary,
		DescriptionMarkdown: req.DescriptionMarkdown,
		Priority:            model.Priority(req.Priority),
		DueDate:             req.DueDate,
		Notify:              req.Notify,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toGoalResponse(goal))
}

// Update handles PUT /v1/goals/{id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	goalID, ok := parseUUIDParam(w, chi.URLParam(r, "id"), "invalid_goal_id", "Goal ID must be a valid UUID")
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.svc.UpdateGoal(r.Context(), userID, goalID, req.toUpdate())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toGoalResponse(goal))
}

// Delete handles DELETE /v1/goals/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	goalID, ok := parseUUIDParam(w, chi.URLParam(r, "id"), "invalid_goal_id", "Goal ID must be a valid UUID")
	if !ok {
		return
	}

	if err := h.svc.DeleteGoal(r.Context(), userID, goalID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		Error(w, http.StatusNotFound, "goal_not_found", "Goal not found")
	case errors.Is(err, repository.ErrGoalTypeNotFound):
		Error(w, http.StatusNotFound, "goal_type_not_found", "Goal type not found")
	case errors.Is(err, usecase.ErrBuiltinGoalType):
		Error(w, http.StatusForbidden, "builtin_goal_type", "Built-in goal types cannot be modified")
	case errors.Is(err, usecase.ErrUnknownGoalType):
		Error(w, http.StatusBadRequest, "invalid_type_id", "Goal type does not exist")
	case errors.Is(err, model.ErrInvalidTypeID):
		Error(w, http.StatusBadRequest, "invalid_type_id", "Goal type ID is required")
	case errors.Is(err, model.ErrEmptyName):
		Error(w, http.StatusBadRequest, "invalid_name", "Name cannot be empty")
	case errors.Is(err, model.ErrNameTooLong):
		Error(w, http.StatusBadRequest, "invalid_name", "Name exceeds maximum length")
	case errors.Is(err, model.ErrInvalidPriority):
		Error(w, http.StatusBadRequest, "invalid_priority", "Priority must be one of None, Low, Medium, High")
	case errors.Is(err, model.ErrInvalidGoalStatus):
		Error(w, http.StatusBadRequest, "invalid_status", "Status must be one of active, done")
	case errors.Is(err, model.ErrNoUpdateFields):
		Error(w, http.StatusBadRequest, "no_update_fields", "No fields to update")
	case errors.Is(err, model.ErrNullField):
		Error(w, http.StatusBadRequest, "null_field", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toGoalTypeResponse(gt *model.GoalType) GoalTypeResponse {
	return GoalTypeResponse{
		ID:          gt.ID.String(),
		Name:        gt.Name,
		Color:       gt.Color,
		CreatedAt:   gt.CreatedAt.Format(time.RFC3339),
		IsDeletable: gt.IsDeletable,
	}
}

func toGoalResponse(g *model.Goal) GoalResponse {
	resp := GoalResponse{
		ID:                  g.ID.String(),
		TypeID:              g.TypeID.String(),
		Name:                g.Name,
		Summary:             g.Summary,
		DescriptionMarkdown: g.DescriptionMarkdown,
		Status:              g.Status.String(),
		Priority:            g.Priority.String(),
		Notify:              g.Notify,
		CreatedAt:           g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           g.UpdatedAt.Format(time.RFC3339),
	}
	if g.DueDate != nil {
		due := g.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}
