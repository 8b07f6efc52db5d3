package sellers

import (
	"context"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes seller profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sellers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID returns the profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindBySlug returns the profile with the given portfolio slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	if err := r.db.WithContext(ctx).Where("portfolio_slug = ?", slug).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateWithTx inserts a profile inside an existing transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, profile *models.SellerProfile) error {
	return tx.Create(profile).Error
}
