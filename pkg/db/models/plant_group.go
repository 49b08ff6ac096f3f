package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// PlantGroup is a shared collection of plants (e.g. a household or office).
type PlantGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PlantGroupMember links a user into a group with a role.
type PlantGroupMember struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	Role      enums.GroupRole `gorm:"type:group_role;not null;default:'member'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
