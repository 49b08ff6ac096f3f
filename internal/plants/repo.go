package plants

import (
	"context"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes plant persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, plant *models.Plant) error
	FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error)
	ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]models.Plant, error)
	Update(ctx context.Context, plant *models.Plant) error
	Delete(ctx context.Context, userID, plantID uuid.UUID) (bool, error)
	ListUserIDsWithPlants(ctx context.Context) ([]uuid.UUID, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a plant repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, plant *models.Plant) error {
	return r.db.WithContext(ctx).Create(plant).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", plantID, userID).
		First(&plant).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	var plants []models.Plant
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

func (r *repositoryImpl) ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]models.Plant, error) {
	var plants []models.Plant
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Order("name ASC").
		Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

func (r *repositoryImpl) Update(ctx context.Context, plant *models.Plant) error {
	return r.db.WithContext(ctx).Save(plant).Error
}

// Delete removes the plant and its dependent care tasks. Tasks carry no
// cascade at the gorm level, so both deletes run in the caller's scope.
func (r *repositoryImpl) Delete(ctx context.Context, userID, plantID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", plantID, userID).
		Delete(&models.Plant{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).
		Where("plant_id = ? AND user_id = ?", plantID, userID).
		Delete(&models.CareTask{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListUserIDsWithPlants returns the distinct owners of at least one plant.
// The reminder scan iterates these instead of the full user table.
func (r *repositoryImpl) ListUserIDsWithPlants(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Plant{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
