package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/repo"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
)

// Repository persists purchases.
type Repository struct {
	repo.Base
}

// NewRepository constructs the purchases repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateWithTx inserts a purchase inside an existing transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, purchase *models.Purchase) error {
	return tx.Create(purchase).Error
}

// FindByUserAndAgent loads one user's purchase of one agent.
func (r *Repository) FindByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.DB(ctx).
		Where("user_id = ? AND agent_id = ?", userID, agentID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListByUserID returns a user's purchases, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CountByAgentID returns how many purchases an agent has recorded.
func (r *Repository) CountByAgentID(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Purchase{}).
		Where("agent_id = ?", agentID).
		Count(&count).Error
	return count, err
}
