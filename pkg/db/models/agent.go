package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agentmart/agentmart-backend/pkg/enums"
)

// Agent is a purchasable AI workflow listing.
type Agent struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string            `gorm:"column:slug;not null;uniqueIndex"`
	Title         string            `gorm:"column:title;not null"`
	Description   string            `gorm:"column:description;not null;default:''"`
	Status        enums.AgentStatus `gorm:"column:status;type:agent_status;not null;default:'draft'"`
	Price         decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	ViewCount     int64             `gorm:"column:view_count;not null;default:0"`
	PurchaseCount int64             `gorm:"column:purchase_count;not null;default:0"`
	Version       int               `gorm:"column:version;not null;default:1"`
	ThumbnailURL  *string           `gorm:"column:thumbnail_url"`
	SellerID      uuid.UUID         `gorm:"column:seller_id;type:uuid;not null;index"`
	CategoryID    uuid.UUID         `gorm:"column:category_id;type:uuid;not null;index"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
