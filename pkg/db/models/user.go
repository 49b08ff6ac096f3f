package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Plants, tasks,
// notifications, and preferences all hang off a user and are removed with it.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	DisplayName   string     `gorm:"column:display_name;not null"`
	Phone         *string    `gorm:"column:phone"`
	PhoneVerified bool       `gorm:"column:phone_verified;not null;default:false"`
	Timezone      string     `gorm:"column:timezone;not null;default:'UTC'"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
