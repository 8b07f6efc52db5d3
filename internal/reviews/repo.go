package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/repo"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
)

// Repository persists reviews.
type Repository struct {
	repo.Base
}

// NewRepository constructs the reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a review.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Create(review).Error
}

// ListByAgentID returns an agent's reviews, newest first.
func (r *Repository) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.DB(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByUserAndAgent loads one user's review of one agent.
func (r *Repository) FindByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.DB(ctx).
		Where("user_id = ? AND agent_id = ?", userID, agentID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}
