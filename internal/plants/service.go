package plants

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePlantRequest is the payload for registering a plant.
type CreatePlantRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Species    *string    `json:"species,omitempty" validate:"omitempty,max=200"`
	Location   *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	Notes      string     `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdatePlantRequest carries the mutable fields of a plant. Nil pointers
// leave stored values untouched; ClearGroup detaches the plant.
type UpdatePlantRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Species    *string    `json:"species,omitempty" validate:"omitempty,max=200"`
	Location   *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	ClearGroup bool       `json:"clear_group,omitempty"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	PhotoURL   *string    `json:"photo_url,omitempty" validate:"omitempty,url,max=2000"`
}

// Service defines plant operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreatePlantRequest) (*PlantDTO, error)
	Get(ctx context.Context, userID, plantID uuid.UUID) (*PlantDTO, error)
	List(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]PlantDTO, error)
	Update(ctx context.Context, userID, plantID uuid.UUID, req UpdatePlantRequest) (*PlantDTO, error)
	Delete(ctx context.Context, userID, plantID uuid.UUID) error
}

type groupChecker interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type service struct {
	repo   Repository
	groups groupChecker
}

// ServiceParams bundles the plant service dependencies.
type ServiceParams struct {
	Repo   Repository
	Groups groupChecker
}

// NewService validates dependencies and builds the plant service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("plant repository is required")
	}
	if params.Groups == nil {
		return nil, fmt.Errorf("group membership checker is required")
	}
	return &service{repo: params.Repo, groups: params.Groups}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreatePlantRequest) (*PlantDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.GroupID != nil {
		if err := s.requireMembership(ctx, *req.GroupID, userID); err != nil {
			return nil, err
		}
	}

	plant := &models.Plant{
		ID:         uuid.New(),
		UserID:     userID,
		GroupID:    req.GroupID,
		Name:       name,
		Species:    req.Species,
		Location:   req.Location,
		AcquiredAt: req.AcquiredAt,
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := s.repo.Create(ctx, plant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plant")
	}
	return FromModel(plant), nil
}

func (s *service) Get(ctx context.Context, userID, plantID uuid.UUID) (*PlantDTO, error) {
	plant, err := s.findOwned(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}
	return FromModel(plant), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]PlantDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	var rows []models.Plant
	var err error
	if groupID != nil {
		rows, err = s.repo.ListByGroup(ctx, userID, *groupID)
	} else {
		rows, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plants")
	}

	dtos := make([]PlantDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, plantID uuid.UUID, req UpdatePlantRequest) (*PlantDTO, error) {
	plant, err := s.findOwned(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		plant.Name = name
	}
	if req.Species != nil {
		plant.Species = req.Species
	}
	if req.Location != nil {
		plant.Location = req.Location
	}
	if req.AcquiredAt != nil {
		plant.AcquiredAt = req.AcquiredAt
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		plant.Notes = notes
	}
	if req.PhotoURL != nil {
		plant.PhotoURL = req.PhotoURL
	}
	if req.ClearGroup {
		plant.GroupID = nil
	} else if req.GroupID != nil {
		if err := s.requireMembership(ctx, *req.GroupID, userID); err != nil {
			return nil, err
		}
		plant.GroupID = req.GroupID
	}

	if err := s.repo.Update(ctx, plant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plant")
	}
	return FromModel(plant), nil
}

func (s *service) Delete(ctx context.Context, userID, plantID uuid.UUID) error {
	if userID == uuid.Nil || plantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and plant ids required")
	}
	deleted, err := s.repo.Delete(ctx, userID, plantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plant")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
	}
	return nil
}

func (s *service) requireMembership(ctx context.Context, groupID, userID uuid.UUID) error {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check group membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this group")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	if userID == uuid.Nil || plantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and plant ids required")
	}
	plant, err := s.repo.FindByID(ctx, userID, plantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	return plant, nil
}
