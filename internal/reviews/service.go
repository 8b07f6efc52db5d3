package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	AgentID   uuid.UUID `json:"agent_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewInput captures the fields a buyer submits.
type CreateReviewInput struct {
	AgentSlug string  `json:"agent_slug"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]models.Review, error)
}

type agentFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Agent, error)
}

type purchaseFinder interface {
	FindByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) (*models.Purchase, error)
}

// Service gates review creation on purchase age.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	ListForAgent(ctx context.Context, agentSlug string) ([]ReviewDTO, error)
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	Repo      reviewStore
	Agents    agentFinder
	Purchases purchaseFinder
	// EligibilityWindow is how long after purchase a review unlocks.
	EligibilityWindow time.Duration
	Now               func() time.Time
}

type service struct {
	repo      reviewStore
	agents    agentFinder
	purchases purchaseFinder
	window    time.Duration
	now       func() time.Time
}

// NewService wires the review dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if params.Agents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agents repository required")
	}
	if params.Purchases == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchases repository required")
	}
	window := params.EligibilityWindow
	if window <= 0 {
		window = 14 * 24 * time.Hour
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		agents:    params.Agents,
		purchases: params.Purchases,
		window:    window,
		now:       now,
	}, nil
}

// Create records a review. The reviewer must have purchased the agent at
// least the eligibility window ago, and may review each agent once.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.AgentSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent_slug is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	agent, err := s.agents.FindBySlug(ctx, input.AgentSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}

	purchase, err := s.purchases.FindByUserAndAgent(ctx, userID, agent.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "purchase required before reviewing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}

	unlocksAt := purchase.CreatedAt.Add(s.window)
	if s.now().Before(unlocksAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase too recent to review").
			WithDetails(map[string]any{"unlocks_at": unlocksAt.UTC().Format(time.RFC3339)})
	}

	review := &models.Review{
		UserID:  userID,
		AgentID: agent.ID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "idx_reviews_user_agent") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "agent already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return fromModel(review), nil
}

func (s *service) ListForAgent(ctx context.Context, agentSlug string) ([]ReviewDTO, error) {
	agent, err := s.agents.FindBySlug(ctx, agentSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	rows, err := s.repo.ListByAgentID(ctx, agent.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, *fromModel(&row))
	}
	return dtos, nil
}

func fromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		AgentID:   r.AgentID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
