package purchases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// PurchaseDTO is the transport shape for a purchase.
type PurchaseDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	AgentID   uuid.UUID       `json:"agent_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type purchaseStore interface {
	CreateWithTx(tx *gorm.DB, purchase *models.Purchase) error
	FindByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) (*models.Purchase, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type agentStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.Agent, error)
	IncrementPurchaseCountWithTx(tx *gorm.DB, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records purchases and grants entitlement.
type Service interface {
	Purchase(ctx context.Context, userID uuid.UUID, agentSlug string) (*PurchaseDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]PurchaseDTO, error)
	HasPurchased(ctx context.Context, userID, agentID uuid.UUID) (bool, error)
}

// ServiceParams groups dependencies for the purchases service.
type ServiceParams struct {
	Repo              purchaseStore
	Agents            agentStore
	TransactionRunner txRunner
}

type service struct {
	repo     purchaseStore
	agents   agentStore
	txRunner txRunner
}

// NewService wires the purchase dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchases repository required")
	}
	if params.Agents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agents repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		agents:   params.Agents,
		txRunner: params.TransactionRunner,
	}, nil
}

// Purchase records one user's purchase of an approved agent. The purchase
// row and the counter bump commit in the same transaction; a second attempt
// for the same pair is a conflict.
func (s *service) Purchase(ctx context.Context, userID uuid.UUID, agentSlug string) (*PurchaseDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if agentSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent slug required")
	}

	agent, err := s.agents.FindBySlug(ctx, agentSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	if agent.Status != enums.AgentStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "agent is not available for purchase")
	}
	if agent.SellerID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot purchase your own listing")
	}

	purchase := &models.Purchase{
		UserID:  userID,
		AgentID: agent.ID,
		Amount:  agent.Price,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, purchase); err != nil {
			if db.IsUniqueViolation(err, "idx_purchases_user_agent") || db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "agent already purchased")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
		}
		if err := s.agents.IncrementPurchaseCountWithTx(tx, agent.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump purchase counter")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fromModel(purchase), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]PurchaseDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	dtos := make([]PurchaseDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, *fromModel(&row))
	}
	return dtos, nil
}

func (s *service) HasPurchased(ctx context.Context, userID, agentID uuid.UUID) (bool, error) {
	_, err := s.repo.FindByUserAndAgent(ctx, userID, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return true, nil
}

func fromModel(p *models.Purchase) *PurchaseDTO {
	if p == nil {
		return nil
	}
	return &PurchaseDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		AgentID:   p.AgentID,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}
