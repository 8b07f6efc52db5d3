package support

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// RequestDTO is the transport shape for a support request.
type RequestDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Subject   string              `json:"subject"`
	Message   string              `json:"message"`
	Status    enums.SupportStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateRequestInput captures a new help ticket.
type CreateRequestInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type store interface {
	Create(ctx context.Context, request *models.SupportRequest) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.SupportRequest, error)
}

// Service opens and lists help tickets.
type Service interface {
	Open(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*RequestDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error)
}

type service struct {
	repo store
}

// NewService wires the support dependencies.
func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "support repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Open(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*RequestDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	request := &models.SupportRequest{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  enums.SupportStatusOpen,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create support request")
	}
	return fromModel(request), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list support requests")
	}
	dtos := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, *fromModel(&row))
	}
	return dtos, nil
}

func fromModel(r *models.SupportRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Subject:   r.Subject,
		Message:   r.Message,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
