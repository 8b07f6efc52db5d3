package agents

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
)

// AgentDTO is the transport shape for a listing.
type AgentDTO struct {
	ID            uuid.UUID         `json:"id"`
	Slug          string            `json:"slug"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        enums.AgentStatus `json:"status"`
	Price         decimal.Decimal   `json:"price"`
	ViewCount     int64             `json:"view_count"`
	PurchaseCount int64             `json:"purchase_count"`
	Version       int               `json:"version"`
	ThumbnailURL  *string           `json:"thumbnail_url,omitempty"`
	SellerID      uuid.UUID         `json:"seller_id"`
	CategoryID    uuid.UUID         `json:"category_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CreateAgentInput captures the fields a seller provides for a new draft.
type CreateAgentInput struct {
	Title       string          `json:"title" validate:"required,min=3,max=160"`
	Description string          `json:"description" validate:"max=20000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
}

// FromModel maps a stored agent to its DTO.
func FromModel(a *models.Agent) *AgentDTO {
	if a == nil {
		return nil
	}
	return &AgentDTO{
		ID:            a.ID,
		Slug:          a.Slug,
		Title:         a.Title,
		Description:   a.Description,
		Status:        a.Status,
		Price:         a.Price,
		ViewCount:     a.ViewCount,
		PurchaseCount: a.PurchaseCount,
		Version:       a.Version,
		ThumbnailURL:  a.ThumbnailURL,
		SellerID:      a.SellerID,
		CategoryID:    a.CategoryID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
