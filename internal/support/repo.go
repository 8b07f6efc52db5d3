package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/repo"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
)

// Repository persists support requests.
type Repository struct {
	repo.Base
}

// NewRepository constructs the support repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a support request.
func (r *Repository) Create(ctx context.Context, request *models.SupportRequest) error {
	return r.DB(ctx).Create(request).Error
}

// ListByUserID returns a user's requests, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.SupportRequest, error) {
	var rows []models.SupportRequest
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus closes or reopens a request.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SupportStatus) error {
	return r.DB(ctx).Model(&models.SupportRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}
