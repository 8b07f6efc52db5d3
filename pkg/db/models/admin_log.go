package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminLog records a moderation action for audit purposes.
type AdminLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID    uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Action     string    `gorm:"column:action;not null"`
	TargetType string    `gorm:"column:target_type;not null"`
	TargetID   uuid.UUID `gorm:"column:target_id;type:uuid;not null"`
	Note       *string   `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
