package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/pagination"
)

// Moderation decision actions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"

	adminLogTargetAgent = "agent"
)

// Viewer identifies who is looking at a listing. A nil viewer is an
// anonymous request.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ListParams scopes the public catalog query.
type ListParams struct {
	CategorySlug string
	Limit        int
	Cursor       string
}

// ListResult is one catalog page plus the cursor for the next one.
type ListResult struct {
	Items      []AgentDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type store interface {
	Create(ctx context.Context, agent *models.Agent) error
	FindBySlug(ctx context.Context, slug string) (*models.Agent, error)
	ListApproved(ctx context.Context, filter ListFilter) ([]models.Agent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AgentStatus) error
	UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.AgentStatus) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type categoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type auditWriter interface {
	CreateWithTx(tx *gorm.DB, entry *models.AdminLog) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the listing lifecycle and the public catalog.
type Service interface {
	CreateDraft(ctx context.Context, sellerID uuid.UUID, input CreateAgentInput) (*AgentDTO, error)
	Submit(ctx context.Context, sellerID uuid.UUID, slug string) (*AgentDTO, error)
	Decide(ctx context.Context, adminID uuid.UUID, slug, action string, note *string) (*AgentDTO, error)
	GetBySlug(ctx context.Context, slug string, viewer *Viewer) (*AgentDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ServiceParams groups dependencies for the agents service.
type ServiceParams struct {
	Repo              store
	Categories        categoryFinder
	AdminLogs         auditWriter
	TransactionRunner txRunner
	Validator         *validator.Validate
	Logger            *logger.Logger
}

type service struct {
	repo       store
	categories categoryFinder
	adminLogs  auditWriter
	txRunner   txRunner
	validate   *validator.Validate
	logg       *logger.Logger
}

// NewService wires the listing lifecycle dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agents repository required")
	}
	if params.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "categories repository required")
	}
	if params.AdminLogs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin log repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &service{
		repo:       params.Repo,
		categories: params.Categories,
		adminLogs:  params.AdminLogs,
		txRunner:   params.TransactionRunner,
		validate:   validate,
		logg:       params.Logger,
	}, nil
}

// CreateDraft creates a new listing in draft status for the seller.
func (s *service) CreateDraft(ctx context.Context, sellerID uuid.UUID, input CreateAgentInput) (*AgentDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent input")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	agent := &models.Agent{
		Slug:        Slugify(input.Title),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      enums.AgentStatusDraft,
		Price:       input.Price,
		Version:     1,
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
	}

	if err := s.repo.Create(ctx, agent); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create agent")
		}
		// Slug collision: retry once with a random suffix.
		agent.Slug = fmt.Sprintf("%s-%s", agent.Slug, uuid.NewString()[:8])
		if err := s.repo.Create(ctx, agent); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create agent")
		}
	}
	return FromModel(agent), nil
}

// Submit moves a draft into review. Only the owning seller may submit.
func (s *service) Submit(ctx context.Context, sellerID uuid.UUID, slug string) (*AgentDTO, error) {
	agent, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if agent.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the listing owner")
	}
	if agent.Status != enums.AgentStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot submit listing in status %s", agent.Status))
	}
	if err := s.repo.UpdateStatus(ctx, agent.ID, enums.AgentStatusUnderReview); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent status")
	}
	agent.Status = enums.AgentStatusUnderReview
	return FromModel(agent), nil
}

// Decide applies an admin moderation decision and records it in the audit
// log inside the same transaction.
func (s *service) Decide(ctx context.Context, adminID uuid.UUID, slug, action string, note *string) (*AgentDTO, error) {
	var next enums.AgentStatus
	switch action {
	case DecisionApprove:
		next = enums.AgentStatusApproved
	case DecisionReject:
		next = enums.AgentStatusRejected
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown decision action %q", action))
	}

	agent, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if agent.Status != enums.AgentStatusUnderReview {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot decide on listing in status %s", agent.Status))
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusWithTx(tx, agent.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent status")
		}
		entry := &models.AdminLog{
			AdminID:    adminID,
			Action:     "agent." + action,
			TargetType: adminLogTargetAgent,
			TargetID:   agent.ID,
			Note:       note,
		}
		if err := s.adminLogs.CreateWithTx(tx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write admin log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	agent.Status = next
	return FromModel(agent), nil
}

// GetBySlug returns one listing. Approved listings are public and count a
// view; drafts and rejected listings are visible to the owner and admins
// only.
func (s *service) GetBySlug(ctx context.Context, slug string, viewer *Viewer) (*AgentDTO, error) {
	agent, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if agent.Status == enums.AgentStatusApproved {
		if err := s.repo.IncrementViewCount(ctx, agent.ID); err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "agent_id", agent.ID.String()), "view counter update failed")
			}
		} else {
			agent.ViewCount++
		}
		return FromModel(agent), nil
	}

	if viewer != nil && (viewer.UserID == agent.SellerID || viewer.Role == enums.UserRoleAdmin) {
		return FromModel(agent), nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
}

// List returns one page of approved listings, newest first.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	filter := ListFilter{Limit: pagination.LimitWithBuffer(params.Limit)}

	if slug := strings.TrimSpace(params.CategorySlug); slug != "" {
		category, err := s.categories.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		filter.CategoryID = &category.ID
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	filter.Cursor = cursor

	rows, err := s.repo.ListApproved(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agents")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{Items: make([]AgentDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for _, row := range rows {
		result.Items = append(result.Items, *FromModel(&row))
	}
	return result, nil
}

func (s *service) findBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	agent, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	return agent, nil
}

var slugStripper = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(title string) string {
	slug := slugStripper.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}
