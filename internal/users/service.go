package users

import (
	"context"
	"errors"

	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service resolves user records and roles for access gating.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	RoleFor(ctx context.Context, userID uuid.UUID) (enums.UserRole, error)
}

type service struct {
	repo *Repository
}

// NewService wires the user lookup dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) RoleFor(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
