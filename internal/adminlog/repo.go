package adminlog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/repo"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
)

// Repository persists admin audit entries.
type Repository struct {
	repo.Base
}

// NewRepository constructs the admin log repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts an audit entry.
func (r *Repository) Create(ctx context.Context, entry *models.AdminLog) error {
	return r.DB(ctx).Create(entry).Error
}

// CreateWithTx inserts an audit entry inside an existing transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, entry *models.AdminLog) error {
	return tx.Create(entry).Error
}

// ListByTarget returns entries for one moderated object, newest first.
func (r *Repository) ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID) ([]models.AdminLog, error) {
	var entries []models.AdminLog
	err := r.DB(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
