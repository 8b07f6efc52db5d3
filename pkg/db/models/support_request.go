package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/pkg/enums"
)

// SupportRequest is an inbound help ticket from a user.
type SupportRequest struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Subject   string              `gorm:"column:subject;not null"`
	Message   string              `gorm:"column:message;not null"`
	Status    enums.SupportStatus `gorm:"column:status;type:support_status;not null;default:'open'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
