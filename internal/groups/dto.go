package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// GroupDTO is the transport shape of a plant group.
type GroupDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberDTO is the transport shape of a group membership.
type MemberDTO struct {
	UserID   uuid.UUID       `json:"user_id"`
	Role     enums.GroupRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

func FromModel(g *models.PlantGroup) *GroupDTO {
	if g == nil {
		return nil
	}
	return &GroupDTO{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func MemberFromModel(m *models.PlantGroupMember) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}
}
