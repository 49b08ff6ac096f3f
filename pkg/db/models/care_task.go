package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// CareTask is a recurring maintenance obligation for a plant. NextDueAt is
// nil until the task is scheduled; once set it is always derived by applying
// the recurrence pattern to the later of the previous due date and the
// completion time.
type CareTask struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	PlantID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	TaskType        enums.TaskType       `gorm:"type:care_task_type;not null"`
	Title           string               `gorm:"type:text;not null"`
	Description     *string              `gorm:"type:text"`
	Frequency       int                  `gorm:"not null"`
	FrequencyUnit   enums.RecurrenceUnit `gorm:"type:recurrence_unit;not null"`
	NextDueAt       *time.Time           `gorm:"type:timestamptz;index"`
	LastCompletedAt *time.Time           `gorm:"type:timestamptz"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// CareEvent is an append-only completion log entry for a care task.
type CareEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PlantID     uuid.UUID `gorm:"type:uuid;not null"`
	CompletedAt time.Time `gorm:"type:timestamptz;not null"`
	Notes       string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
