package sellers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/internal/users"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// SellerDTO is the transport shape for a seller profile.
type SellerDTO struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	PortfolioSlug string    `json:"portfolio_slug"`
	Bio           *string   `json:"bio,omitempty"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// BecomeSellerInput captures the data required to open a seller profile.
type BecomeSellerInput struct {
	PortfolioSlug string
	Bio           *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the seller onboarding surface.
type Service interface {
	BecomeSeller(ctx context.Context, userID uuid.UUID, input BecomeSellerInput) (*SellerDTO, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*SellerDTO, error)
}

// ServiceParams groups dependencies for the sellers service.
type ServiceParams struct {
	Repo              *Repository
	UserRepo          *users.Repository
	TransactionRunner txRunner
}

type service struct {
	repo     *Repository
	userRepo *users.Repository
	txRunner txRunner
}

// NewService wires the seller onboarding dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sellers repository required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		userRepo: params.UserRepo,
		txRunner: params.TransactionRunner,
	}, nil
}

// BecomeSeller creates the profile and promotes the user's role in one
// transaction. Admins keep their admin role.
func (s *service) BecomeSeller(ctx context.Context, userID uuid.UUID, input BecomeSellerInput) (*SellerDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	slug := strings.TrimSpace(strings.ToLower(input.PortfolioSlug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "portfolio_slug is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "seller profile already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing profile")
	}

	profile := &models.SellerProfile{
		UserID:        userID,
		PortfolioSlug: slug,
		Bio:           input.Bio,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, profile); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "portfolio slug already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller profile")
		}
		if user.Role == enums.UserRoleBuyer {
			if err := s.userRepo.UpdateRoleWithTx(tx, userID, enums.UserRoleSeller); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user role")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fromModel(profile), nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*SellerDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller profile")
	}
	return fromModel(profile), nil
}

func fromModel(p *models.SellerProfile) *SellerDTO {
	if p == nil {
		return nil
	}
	return &SellerDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		PortfolioSlug: p.PortfolioSlug,
		Bio:           p.Bio,
		Verified:      p.Verified,
		CreatedAt:     p.CreatedAt,
	}
}
