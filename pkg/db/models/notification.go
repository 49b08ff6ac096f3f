package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/evergreenlabs/plantcare-backend/pkg/db/types"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// Notification is a delivery record scoped to a user. Rows are immutable
// except for the read flag and timestamp; SMS/email rows are created already
// read because the user sees them outside the app.
type Notification struct {
	ID        uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	TaskID    *uuid.UUID                `gorm:"type:uuid;index"`
	PlantID   *uuid.UUID                `gorm:"type:uuid"`
	Type      enums.NotificationType    `gorm:"type:notification_type;not null"`
	Channel   enums.NotificationChannel `gorm:"type:notification_channel;not null"`
	Title     string                    `gorm:"type:text;not null"`
	Message   string                    `gorm:"type:text;not null"`
	Metadata  dbtypes.JSONMap           `gorm:"type:jsonb"`
	Read      bool                      `gorm:"not null;default:false"`
	ReadAt    *time.Time                `gorm:"type:timestamptz"`
	SentAt    time.Time                 `gorm:"type:timestamptz;not null"`
	CreatedAt time.Time                 `gorm:"type:timestamptz;default:now()"`
}
