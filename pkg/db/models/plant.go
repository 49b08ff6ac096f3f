package models

import (
	"time"

	"github.com/google/uuid"
)

// Plant is a single houseplant registered by a user. Care tasks are owned by
// the plant and removed with it.
type Plant struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	GroupID    *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:text;not null"`
	Species    *string    `gorm:"type:text"`
	Location   *string    `gorm:"type:text"`
	PhotoURL   *string    `gorm:"type:text"`
	AcquiredAt *time.Time `gorm:"type:timestamptz"`
	Notes      string     `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
