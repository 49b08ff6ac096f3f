package groups

import (
	"context"
	"errors"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes plant group persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, group *models.PlantGroup) error
	FindByID(ctx context.Context, groupID uuid.UUID) (*models.PlantGroup, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.PlantGroup, error)
	Update(ctx context.Context, group *models.PlantGroup) error
	Delete(ctx context.Context, groupID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, member *models.PlantGroupMember) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.PlantGroupMember, error)
	FindMember(ctx context.Context, groupID, userID uuid.UUID) (*models.PlantGroupMember, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a group repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, group *models.PlantGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, groupID uuid.UUID) (*models.PlantGroup, error) {
	var group models.PlantGroup
	if err := r.db.WithContext(ctx).
		Where("id = ?", groupID).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repositoryImpl) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.PlantGroup, error) {
	var groups []models.PlantGroup
	if err := r.db.WithContext(ctx).
		Joins("JOIN plant_group_members ON plant_group_members.group_id = plant_groups.id").
		Where("plant_group_members.user_id = ?", userID).
		Order("plant_groups.name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repositoryImpl) Update(ctx context.Context, group *models.PlantGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes the group, its memberships, and detaches any plants still
// assigned to it.
func (r *repositoryImpl) Delete(ctx context.Context, groupID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", groupID).
		Delete(&models.PlantGroup{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.PlantGroupMember{}).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Plant{}).
		Where("group_id = ?", groupID).
		Update("group_id", nil).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *repositoryImpl) AddMember(ctx context.Context, member *models.PlantGroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repositoryImpl) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.PlantGroupMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.PlantGroupMember, error) {
	var members []models.PlantGroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repositoryImpl) FindMember(ctx context.Context, groupID, userID uuid.UUID) (*models.PlantGroupMember, error) {
	var member models.PlantGroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repositoryImpl) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	_, err := r.FindMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
