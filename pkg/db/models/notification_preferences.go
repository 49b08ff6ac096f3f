package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences is the one-per-user delivery configuration. A user
// without a row gets fail-open defaults: every notification is permitted.
type NotificationPreferences struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SMSEnabled          bool      `gorm:"column:sms_enabled;not null;default:false"`
	EmailEnabled        bool      `gorm:"column:email_enabled;not null;default:true"`
	NotifyTaskDue       bool      `gorm:"column:notify_task_due;not null;default:true"`
	NotifyTaskOverdue   bool      `gorm:"column:notify_task_overdue;not null;default:true"`
	NotifyTaskCompleted bool      `gorm:"column:notify_task_completed;not null;default:false"`
	QuietHoursStart     int       `gorm:"column:quiet_hours_start;not null;default:21"`
	QuietHoursEnd       int       `gorm:"column:quiet_hours_end;not null;default:9"`
	AdvanceNoticeHours  int       `gorm:"column:advance_notice_hours;not null;default:24"`
	Phone               *string   `gorm:"column:phone"`
	PhoneVerified       bool      `gorm:"column:phone_verified;not null;default:false"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
