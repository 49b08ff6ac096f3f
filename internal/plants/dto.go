package plants

import (
	"time"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
)

// PlantDTO is the transport shape of a plant.
type PlantDTO struct {
	ID         uuid.UUID  `json:"id"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	Name       string     `json:"name"`
	Species    *string    `json:"species,omitempty"`
	Location   *string    `json:"location,omitempty"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func FromModel(p *models.Plant) *PlantDTO {
	if p == nil {
		return nil
	}
	return &PlantDTO{
		ID:         p.ID,
		GroupID:    p.GroupID,
		Name:       p.Name,
		Species:    p.Species,
		Location:   p.Location,
		PhotoURL:   p.PhotoURL,
		AcquiredAt: p.AcquiredAt,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
