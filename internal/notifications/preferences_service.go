package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferencesDTO is the transport shape of notification preferences.
type PreferencesDTO struct {
	SMSEnabled          bool      `json:"sms_enabled"`
	EmailEnabled        bool      `json:"email_enabled"`
	NotifyTaskDue       bool      `json:"notify_task_due"`
	NotifyTaskOverdue   bool      `json:"notify_task_overdue"`
	NotifyTaskCompleted bool      `json:"notify_task_completed"`
	QuietHoursStart     int       `json:"quiet_hours_start"`
	QuietHoursEnd       int       `json:"quiet_hours_end"`
	AdvanceNoticeHours  int       `json:"advance_notice_hours"`
	Phone               *string   `json:"phone,omitempty"`
	PhoneVerified       bool      `json:"phone_verified"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdatePreferencesRequest carries the full replacement preferences payload.
type UpdatePreferencesRequest struct {
	SMSEnabled          bool    `json:"sms_enabled"`
	EmailEnabled        bool    `json:"email_enabled"`
	NotifyTaskDue       bool    `json:"notify_task_due"`
	NotifyTaskOverdue   bool    `json:"notify_task_overdue"`
	NotifyTaskCompleted bool    `json:"notify_task_completed"`
	QuietHoursStart     int     `json:"quiet_hours_start" validate:"min=0,max=23"`
	QuietHoursEnd       int     `json:"quiet_hours_end" validate:"min=0,max=23"`
	AdvanceNoticeHours  int     `json:"advance_notice_hours" validate:"min=1,max=168"`
	Phone               *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// PreferencesService defines read/update operations on notification
// preferences.
type PreferencesService interface {
	Get(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*PreferencesDTO, error)
}

type preferencesService struct {
	repo PreferencesRepository
}

// NewPreferencesService wires the preferences dependencies.
func NewPreferencesService(repo PreferencesRepository) (PreferencesService, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "preferences repository required")
	}
	return &preferencesService{repo: repo}, nil
}

// Get returns the stored preferences, creating the default row for users
// registered before preferences existed.
func (s *preferencesService) Get(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	prefs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			prefs, err = s.repo.CreateDefaults(ctx, userID, nil)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default preferences")
			}
		} else {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
		}
	}

	return preferencesFromModel(prefs), nil
}

func (s *preferencesService) Update(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*PreferencesDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	prefs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
		}
		prefs = &models.NotificationPreferences{ID: uuid.New(), UserID: userID}
	}

	// Changing the phone number resets verification.
	if !equalPhone(prefs.Phone, req.Phone) {
		prefs.PhoneVerified = false
	}

	prefs.SMSEnabled = req.SMSEnabled
	prefs.EmailEnabled = req.EmailEnabled
	prefs.NotifyTaskDue = req.NotifyTaskDue
	prefs.NotifyTaskOverdue = req.NotifyTaskOverdue
	prefs.NotifyTaskCompleted = req.NotifyTaskCompleted
	prefs.QuietHoursStart = req.QuietHoursStart
	prefs.QuietHoursEnd = req.QuietHoursEnd
	prefs.AdvanceNoticeHours = req.AdvanceNoticeHours
	prefs.Phone = req.Phone

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save preferences")
	}

	return preferencesFromModel(prefs), nil
}

func preferencesFromModel(p *models.NotificationPreferences) *PreferencesDTO {
	if p == nil {
		return nil
	}
	return &PreferencesDTO{
		SMSEnabled:          p.SMSEnabled,
		EmailEnabled:        p.EmailEnabled,
		NotifyTaskDue:       p.NotifyTaskDue,
		NotifyTaskOverdue:   p.NotifyTaskOverdue,
		NotifyTaskCompleted: p.NotifyTaskCompleted,
		QuietHoursStart:     p.QuietHoursStart,
		QuietHoursEnd:       p.QuietHoursEnd,
		AdvanceNoticeHours:  p.AdvanceNoticeHours,
		Phone:               p.Phone,
		PhoneVerified:       p.PhoneVerified,
		UpdatedAt:           p.UpdatedAt,
	}
}

func equalPhone(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
