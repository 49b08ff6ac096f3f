package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evergreenlabs/plantcare-backend/internal/notifications"
	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskRequest is the payload for registering a recurring care task.
type CreateTaskRequest struct {
	PlantID       uuid.UUID  `json:"plant_id" validate:"required"`
	TaskType      string     `json:"task_type" validate:"required"`
	Title         string     `json:"title" validate:"required,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Frequency     int        `json:"frequency" validate:"required,min=1,max=365"`
	FrequencyUnit string     `json:"frequency_unit" validate:"required"`
	NextDueAt     *time.Time `json:"next_due_at,omitempty"`
}

// UpdateTaskRequest carries the mutable fields of a task. Nil pointers leave
// the stored value untouched; ClearNextDue unschedules the task.
type UpdateTaskRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Frequency     *int       `json:"frequency,omitempty" validate:"omitempty,min=1,max=365"`
	FrequencyUnit *string    `json:"frequency_unit,omitempty"`
	NextDueAt     *time.Time `json:"next_due_at,omitempty"`
	ClearNextDue  bool       `json:"clear_next_due,omitempty"`
}

// CompleteTaskRequest logs a completion. CompletedAt defaults to the current
// time when omitted.
type CompleteTaskRequest struct {
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CompleteTaskResult returns the advanced task and the recorded event.
type CompleteTaskResult struct {
	Task  *TaskDTO      `json:"task"`
	Event *CareEventDTO `json:"event"`
}

// Service defines care task operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*TaskDTO, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*TaskDTO, error)
	ListByPlant(ctx context.Context, userID, plantID uuid.UUID) ([]TaskDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]TaskDTO, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*TaskDTO, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	Complete(ctx context.Context, userID, taskID uuid.UUID, req CompleteTaskRequest) (*CompleteTaskResult, error)
	ListEvents(ctx context.Context, userID, taskID uuid.UUID, limit int) ([]CareEventDTO, error)
}

type plantFinder interface {
	FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
}

type completionNotifier interface {
	Send(ctx context.Context, params notifications.SendParams) (notifications.SendResult, error)
}

type service struct {
	repo     Repository
	plants   plantFinder
	notifier completionNotifier
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the task service dependencies. Notifier is optional;
// without it completions simply skip the courtesy notification.
type ServiceParams struct {
	Repo     Repository
	Plants   plantFinder
	Notifier completionNotifier
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService validates dependencies and builds the task service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	if params.Plants == nil {
		return nil, fmt.Errorf("plant repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		plants:   params.Plants,
		notifier: params.Notifier,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*TaskDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if req.PlantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plant id required")
	}

	taskType, err := enums.ParseTaskType(req.TaskType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task type")
	}
	unit, err := enums.ParseRecurrenceUnit(req.FrequencyUnit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid frequency unit")
	}
	pattern := RecurrencePattern{Frequency: req.Frequency, Unit: unit}
	if !pattern.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "frequency must be at least 1")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	// The plant must belong to the caller.
	if _, err := s.plants.FindByID(ctx, userID, req.PlantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}

	task := &models.CareTask{
		ID:            uuid.New(),
		UserID:        userID,
		PlantID:       req.PlantID,
		TaskType:      taskType,
		Title:         title,
		Description:   req.Description,
		Frequency:     req.Frequency,
		FrequencyUnit: unit,
		NextDueAt:     normalizeDue(req.NextDueAt),
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create task")
	}
	return FromModel(task), nil
}

func (s *service) Get(ctx context.Context, userID, taskID uuid.UUID) (*TaskDTO, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return FromModel(task), nil
}

func (s *service) ListByPlant(ctx context.Context, userID, plantID uuid.UUID) ([]TaskDTO, error) {
	if userID == uuid.Nil || plantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and plant ids required")
	}
	rows, err := s.repo.ListByPlant(ctx, userID, plantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]TaskDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	return toDTOs(rows), nil
}

func (s *service) Update(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*TaskDTO, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Frequency != nil {
		task.Frequency = *req.Frequency
	}
	if req.FrequencyUnit != nil {
		unit, err := enums.ParseRecurrenceUnit(*req.FrequencyUnit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid frequency unit")
		}
		task.FrequencyUnit = unit
	}
	pattern := RecurrencePattern{Frequency: task.Frequency, Unit: task.FrequencyUnit}
	if !pattern.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "frequency must be at least 1")
	}
	if req.ClearNextDue {
		task.NextDueAt = nil
	} else if req.NextDueAt != nil {
		task.NextDueAt = normalizeDue(req.NextDueAt)
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task")
	}
	return FromModel(task), nil
}

func (s *service) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if userID == uuid.Nil || taskID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and task ids required")
	}
	deleted, err := s.repo.Delete(ctx, userID, taskID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete task")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}
	return nil
}

// Complete logs a care event and advances the schedule. The next due date is
// derived from the later of the previous due date and the completion time, so
// completing early never shortens the cycle and completing late never leaves
// the task due in the past.
func (s *service) Complete(ctx context.Context, userID, taskID uuid.UUID, req CompleteTaskRequest) (*CompleteTaskResult, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	completedAt := s.now().UTC()
	if req.CompletedAt != nil {
		completedAt = req.CompletedAt.UTC()
	}

	event := &models.CareEvent{
		ID:          uuid.New(),
		TaskID:      task.ID,
		UserID:      userID,
		PlantID:     task.PlantID,
		CompletedAt: completedAt,
		Notes:       strings.TrimSpace(req.Notes),
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record care event")
	}

	anchor := completedAt
	if task.NextDueAt != nil && task.NextDueAt.After(anchor) {
		anchor = *task.NextDueAt
	}
	next := NextDueDate(anchor, RecurrencePattern{Frequency: task.Frequency, Unit: task.FrequencyUnit})

	if err := s.repo.UpdateSchedule(ctx, task.ID, &next, &completedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance schedule")
	}
	task.NextDueAt = &next
	task.LastCompletedAt = &completedAt

	s.notifyCompleted(ctx, task)

	return &CompleteTaskResult{Task: FromModel(task), Event: EventFromModel(event)}, nil
}

func (s *service) ListEvents(ctx context.Context, userID, taskID uuid.UUID, limit int) ([]CareEventDTO, error) {
	if userID == uuid.Nil || taskID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and task ids required")
	}
	rows, err := s.repo.ListEvents(ctx, userID, taskID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list care events")
	}
	dtos := make([]CareEventDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *EventFromModel(&rows[i]))
	}
	return dtos, nil
}

// notifyCompleted sends the courtesy completion notification. Failures are
// logged and swallowed: the completion itself already succeeded.
func (s *service) notifyCompleted(ctx context.Context, task *models.CareTask) {
	if s.notifier == nil {
		return
	}
	taskID := task.ID
	plantID := task.PlantID
	_, err := s.notifier.Send(ctx, notifications.SendParams{
		UserID:  task.UserID,
		TaskID:  &taskID,
		PlantID: &plantID,
		Type:    enums.NotificationTypeTaskCompleted,
		Title:   fmt.Sprintf("%s completed", task.Title),
		Message: fmt.Sprintf("Nice work, %s is done.", task.Title),
		Metadata: map[string]any{
			"task_id":  task.ID.String(),
			"plant_id": task.PlantID.String(),
		},
	})
	if err != nil && s.logg != nil {
		logCtx := s.logg.WithTaskID(ctx, task.ID.String())
		s.logg.Warn(s.logg.WithFields(logCtx, map[string]any{"error": err.Error()}), "task.completion_notify.failed")
	}
}

func (s *service) findOwned(ctx context.Context, userID, taskID uuid.UUID) (*models.CareTask, error) {
	if userID == uuid.Nil || taskID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and task ids required")
	}
	task, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	return task, nil
}

func toDTOs(rows []models.CareTask) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

func normalizeDue(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
