package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// TaskDTO is the transport shape of a care task.
type TaskDTO struct {
	ID              uuid.UUID            `json:"id"`
	PlantID         uuid.UUID            `json:"plant_id"`
	TaskType        enums.TaskType       `json:"task_type"`
	Title           string               `json:"title"`
	Description     *string              `json:"description,omitempty"`
	Frequency       int                  `json:"frequency"`
	FrequencyUnit   enums.RecurrenceUnit `json:"frequency_unit"`
	NextDueAt       *time.Time           `json:"next_due_at,omitempty"`
	LastCompletedAt *time.Time           `json:"last_completed_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CareEventDTO is the transport shape of a completion log entry.
type CareEventDTO struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	PlantID     uuid.UUID `json:"plant_id"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       string    `json:"notes,omitempty"`
}

func FromModel(t *models.CareTask) *TaskDTO {
	if t == nil {
		return nil
	}
	return &TaskDTO{
		ID:              t.ID,
		PlantID:         t.PlantID,
		TaskType:        t.TaskType,
		Title:           t.Title,
		Description:     t.Description,
		Frequency:       t.Frequency,
		FrequencyUnit:   t.FrequencyUnit,
		NextDueAt:       t.NextDueAt,
		LastCompletedAt: t.LastCompletedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func EventFromModel(e *models.CareEvent) *CareEventDTO {
	if e == nil {
		return nil
	}
	return &CareEventDTO{
		ID:          e.ID,
		TaskID:      e.TaskID,
		PlantID:     e.PlantID,
		CompletedAt: e.CompletedAt,
		Notes:       e.Notes,
	}
}
