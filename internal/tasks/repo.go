package tasks

import (
	"context"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes care task persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, task *models.CareTask) error
	FindByID(ctx context.Context, userID, taskID uuid.UUID) (*models.CareTask, error)
	ListByPlant(ctx context.Context, userID, plantID uuid.UUID) ([]models.CareTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CareTask, error)
	ListDueWithin(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]models.CareTask, error)
	Update(ctx context.Context, task *models.CareTask) error
	UpdateSchedule(ctx context.Context, taskID uuid.UUID, nextDueAt, lastCompletedAt *time.Time) error
	Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	CreateEvent(ctx context.Context, event *models.CareEvent) error
	ListEvents(ctx context.Context, userID, taskID uuid.UUID, limit int) ([]models.CareEvent, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a task repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, task *models.CareTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, taskID uuid.UUID) (*models.CareTask, error) {
	var task models.CareTask
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repositoryImpl) ListByPlant(ctx context.Context, userID, plantID uuid.UUID) ([]models.CareTask, error) {
	var tasks []models.CareTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Order("next_due_at ASC NULLS LAST").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CareTask, error) {
	var tasks []models.CareTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("next_due_at ASC NULLS LAST").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueWithin selects scheduled tasks whose next due date falls in
// [from, until). Unscheduled tasks (null next_due_at) are never selected.
func (r *repositoryImpl) ListDueWithin(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]models.CareTask, error) {
	var tasks []models.CareTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND next_due_at IS NOT NULL AND next_due_at >= ? AND next_due_at < ?", userID, from, until).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repositoryImpl) Update(ctx context.Context, task *models.CareTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *repositoryImpl) UpdateSchedule(ctx context.Context, taskID uuid.UUID, nextDueAt, lastCompletedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CareTask{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"next_due_at":       nextDueAt,
			"last_completed_at": lastCompletedAt,
		}).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&models.CareTask{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CreateEvent(ctx context.Context, event *models.CareEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repositoryImpl) ListEvents(ctx context.Context, userID, taskID uuid.UUID, limit int) ([]models.CareEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []models.CareEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
