package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateGroupRequest is the payload for creating a shared plant group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateGroupRequest carries the mutable fields of a group.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// AddMemberRequest invites an existing account into the group by email.
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Service defines plant group operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateGroupRequest) (*GroupDTO, error)
	Get(ctx context.Context, userID, groupID uuid.UUID) (*GroupDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error)
	Update(ctx context.Context, userID, groupID uuid.UUID, req UpdateGroupRequest) (*GroupDTO, error)
	Delete(ctx context.Context, userID, groupID uuid.UUID) error
	AddMember(ctx context.Context, userID, groupID uuid.UUID, req AddMemberRequest) (*MemberDTO, error)
	RemoveMember(ctx context.Context, userID, groupID, memberID uuid.UUID) error
	ListMembers(ctx context.Context, userID, groupID uuid.UUID) ([]MemberDTO, error)
}

type userByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db    txRunner
	repo  Repository
	users userByEmailFinder
}

// ServiceParams bundles the group service dependencies.
type ServiceParams struct {
	DB    txRunner
	Repo  Repository
	Users userByEmailFinder
}

// NewService validates dependencies and builds the group service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("group repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &service{db: params.DB, repo: params.Repo, users: params.Users}, nil
}

// Create inserts the group and the owner membership in one transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateGroupRequest) (*GroupDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	group := &models.PlantGroup{
		ID:          uuid.New(),
		OwnerID:     userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, group); err != nil {
			return err
		}
		return repo.AddMember(ctx, &models.PlantGroupMember{
			ID:      uuid.New(),
			GroupID: group.ID,
			UserID:  userID,
			Role:    enums.GroupRoleOwner,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}
	return FromModel(group), nil
}

func (s *service) Get(ctx context.Context, userID, groupID uuid.UUID) (*GroupDTO, error) {
	group, _, err := s.requireMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return FromModel(group), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}
	dtos := make([]GroupDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, groupID uuid.UUID, req UpdateGroupRequest) (*GroupDTO, error) {
	group, err := s.requireOwner(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		group.Name = name
	}
	if req.Description != nil {
		group.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group")
	}
	return FromModel(group), nil
}

func (s *service) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.requireOwner(ctx, userID, groupID); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, groupID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
	}
	return nil
}

func (s *service) AddMember(ctx context.Context, userID, groupID uuid.UUID, req AddMemberRequest) (*MemberDTO, error) {
	if _, err := s.requireOwner(ctx, userID, groupID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	invited, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account with that email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
	}

	already, err := s.repo.IsMember(ctx, groupID, invited.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if already {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
	}

	member := &models.PlantGroupMember{
		ID:      uuid.New(),
		GroupID: groupID,
		UserID:  invited.ID,
		Role:    enums.GroupRoleMember,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add member")
	}
	return MemberFromModel(member), nil
}

// RemoveMember lets the owner remove anyone, and any member remove
// themselves. The owner cannot leave their own group.
func (s *service) RemoveMember(ctx context.Context, userID, groupID, memberID uuid.UUID) error {
	group, _, err := s.requireMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if memberID == group.OwnerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "the owner cannot be removed")
	}
	if userID != group.OwnerID && userID != memberID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can remove other members")
	}

	removed, err := s.repo.RemoveMember(ctx, groupID, memberID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}
	return nil
}

func (s *service) ListMembers(ctx context.Context, userID, groupID uuid.UUID) ([]MemberDTO, error) {
	if _, _, err := s.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	dtos := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *MemberFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) requireMember(ctx context.Context, userID, groupID uuid.UUID) (*models.PlantGroup, *models.PlantGroupMember, error) {
	if userID == uuid.Nil || groupID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user and group ids required")
	}
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	member, err := s.repo.FindMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Membership is invisible to outsiders.
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return group, member, nil
}

func (s *service) requireOwner(ctx context.Context, userID, groupID uuid.UUID) (*models.PlantGroup, error) {
	group, member, err := s.requireMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if member.Role != enums.GroupRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "owner access required")
	}
	return group, nil
}
