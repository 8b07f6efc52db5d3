package agents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/repo"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	"github.com/agentmart/agentmart-backend/pkg/pagination"
)

// ListFilter scopes the public catalog query.
type ListFilter struct {
	CategoryID *uuid.UUID
	Cursor     *pagination.Cursor
	Limit      int
}

// Repository persists agent listings.
type Repository struct {
	repo.Base
}

// NewRepository constructs the agents repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, agent *models.Agent) error {
	return r.DB(ctx).Create(agent).Error
}

// FindBySlug loads one listing by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.DB(ctx).Where("slug = ?", slug).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByID loads one listing by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	if err := r.DB(ctx).Where("id = ?", id).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListApproved returns the public catalog page, newest first. Callers pass a
// limit with a one-row buffer to detect the next page.
func (r *Repository) ListApproved(ctx context.Context, filter ListFilter) ([]models.Agent, error) {
	query := r.DB(ctx).
		Where("status = ?", enums.AgentStatusApproved).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []models.Agent
	err := query.Find(&rows).Error
	return rows, err
}

// ListBySellerID returns all of one seller's listings, newest first.
func (r *Repository) ListBySellerID(ctx context.Context, sellerID uuid.UUID) ([]models.Agent, error) {
	var rows []models.Agent
	err := r.DB(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus moves a listing through the moderation lifecycle.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AgentStatus) error {
	return r.DB(ctx).Model(&models.Agent{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateStatusWithTx updates the status inside an existing transaction.
func (r *Repository) UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.AgentStatus) error {
	return tx.Model(&models.Agent{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// IncrementViewCount bumps the view counter with a single UPDATE so
// concurrent reads do not lose increments.
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Model(&models.Agent{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// IncrementPurchaseCountWithTx bumps the purchase counter inside the
// purchase transaction.
func (r *Repository) IncrementPurchaseCountWithTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&models.Agent{}).
		Where("id = ?", id).
		UpdateColumn("purchase_count", gorm.Expr("purchase_count + 1")).Error
}

// UpdateThumbnail sets the thumbnail URL for one listing.
func (r *Repository) UpdateThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	return r.DB(ctx).Model(&models.Agent{}).
		Where("id = ?", id).
		Update("thumbnail_url", url).Error
}

// ListMissingThumbnails returns listings without a thumbnail URL.
func (r *Repository) ListMissingThumbnails(ctx context.Context) ([]models.Agent, error) {
	var rows []models.Agent
	err := r.DB(ctx).
		Where("thumbnail_url IS NULL OR thumbnail_url = ''").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
