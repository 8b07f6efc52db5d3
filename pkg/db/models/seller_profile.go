package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile extends a user account with the data required to list agents.
type SellerProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PortfolioSlug string    `gorm:"column:portfolio_slug;not null;uniqueIndex"`
	Bio           *string   `gorm:"column:bio"`
	Verified      bool      `gorm:"column:verified;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
