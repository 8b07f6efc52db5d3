package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/pkg/enums"
)

// Subscription persists billing state per user. Access rights are derived
// from these fields at query time, never stored.
type Subscription struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Status             enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	Plan               enums.SubscriptionPlan   `gorm:"column:plan;type:subscription_plan;not null;default:'standard'"`
	CancelAtPeriodEnd  bool                     `gorm:"column:cancel_at_period_end;not null;default:false"`
	CurrentPeriodStart *time.Time               `gorm:"column:current_period_start"`
	CurrentPeriodEnd   *time.Time               `gorm:"column:current_period_end"`
	TrialEnd           *time.Time               `gorm:"column:trial_end"`
	CanceledAt         *time.Time               `gorm:"column:canceled_at"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
