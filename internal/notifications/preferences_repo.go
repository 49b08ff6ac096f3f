package notifications

import (
	"context"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferencesRepository exposes persistence for per-user notification
// preferences.
type PreferencesRepository interface {
	WithTx(tx *gorm.DB) PreferencesRepository
	CreateDefaults(ctx context.Context, userID uuid.UUID, phone *string) (*models.NotificationPreferences, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *models.NotificationPreferences) error
}

type preferencesRepositoryImpl struct {
	db *gorm.DB
}

// NewPreferencesRepository returns a preferences repository bound to the
// provided database.
func NewPreferencesRepository(db *gorm.DB) PreferencesRepository {
	return &preferencesRepositoryImpl{db: db}
}

func (r *preferencesRepositoryImpl) WithTx(tx *gorm.DB) PreferencesRepository {
	if tx == nil {
		return r
	}
	return &preferencesRepositoryImpl{db: tx}
}

func (r *preferencesRepositoryImpl) CreateDefaults(ctx context.Context, userID uuid.UUID, phone *string) (*models.NotificationPreferences, error) {
	prefs := &models.NotificationPreferences{
		ID:                  uuid.New(),
		UserID:              userID,
		SMSEnabled:          false,
		EmailEnabled:        true,
		NotifyTaskDue:       true,
		NotifyTaskOverdue:   true,
		NotifyTaskCompleted: false,
		QuietHoursStart:     21,
		QuietHoursEnd:       9,
		AdvanceNoticeHours:  24,
		Phone:               phone,
	}
	if err := r.db.WithContext(ctx).Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

func (r *preferencesRepositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *preferencesRepositoryImpl) Upsert(ctx context.Context, prefs *models.NotificationPreferences) error {
	return r.db.WithContext(ctx).Save(prefs).Error
}
