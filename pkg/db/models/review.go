package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is buyer feedback on a purchased agent.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_user_agent"`
	AgentID   uuid.UUID `gorm:"column:agent_id;type:uuid;not null;uniqueIndex:idx_reviews_user_agent"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
