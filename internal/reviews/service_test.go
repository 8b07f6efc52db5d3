package reviews

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

type stubReviews struct {
	rows map[string]*models.Review
}

func newStubReviews() *stubReviews {
	return &stubReviews{rows: map[string]*models.Review{}}
}

func reviewKey(userID, agentID uuid.UUID) string {
	return userID.String() + "/" + agentID.String()
}

func (s *stubReviews) Create(ctx context.Context, review *models.Review) error {
	key := reviewKey(review.UserID, review.AgentID)
	if _, exists := s.rows[key]; exists {
		return fmt.Errorf(`duplicate key value violates unique constraint "idx_reviews_user_agent"`)
	}
	review.ID = uuid.New()
	s.rows[key] = review
	return nil
}

func (s *stubReviews) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range s.rows {
		if r.AgentID == agentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type stubAgents struct {
	agents map[string]*models.Agent
}

func (s *stubAgents) FindBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	if a, ok := s.agents[slug]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubPurchases struct {
	purchases map[string]*models.Purchase
}

func (s *stubPurchases) FindByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) (*models.Purchase, error) {
	if p, ok := s.purchases[reviewKey(userID, agentID)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	svc    Service
	repo   *stubReviews
	agent  *models.Agent
	userID uuid.UUID
}

func newFixture(t *testing.T, purchasedAt *time.Time, now time.Time) *fixture {
	t.Helper()
	agent := &models.Agent{
		ID:       uuid.New(),
		Slug:     "invoice-sorter",
		Status:   enums.AgentStatusApproved,
		SellerID: uuid.New(),
	}
	userID := uuid.New()
	purchases := &stubPurchases{purchases: map[string]*models.Purchase{}}
	if purchasedAt != nil {
		purchases.purchases[reviewKey(userID, agent.ID)] = &models.Purchase{
			ID:        uuid.New(),
			UserID:    userID,
			AgentID:   agent.ID,
			CreatedAt: *purchasedAt,
		}
	}
	repo := newStubReviews()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Agents:    &stubAgents{agents: map[string]*models.Agent{agent.Slug: agent}},
		Purchases: purchases,
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, repo: repo, agent: agent, userID: userID}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected typed error got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s got %s", code, appErr.Code())
	}
}

func TestCreateAcceptsExactlyFourteenDayOldPurchase(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	purchasedAt := now.Add(-14 * 24 * time.Hour)
	f := newFixture(t, &purchasedAt, now)

	dto, err := f.svc.Create(context.Background(), f.userID, CreateReviewInput{
		AgentSlug: "invoice-sorter",
		Rating:    5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Rating != 5 || dto.AgentID != f.agent.ID {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestCreateRejectsPurchaseOneHourShort(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	purchasedAt := now.Add(-14*24*time.Hour + time.Hour)
	f := newFixture(t, &purchasedAt, now)

	_, err := f.svc.Create(context.Background(), f.userID, CreateReviewInput{
		AgentSlug: "invoice-sorter",
		Rating:    4,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCreateRequiresPurchase(t *testing.T) {
	f := newFixture(t, nil, time.Now())

	_, err := f.svc.Create(context.Background(), f.userID, CreateReviewInput{
		AgentSlug: "invoice-sorter",
		Rating:    3,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	now := time.Now()
	purchasedAt := now.Add(-30 * 24 * time.Hour)
	f := newFixture(t, &purchasedAt, now)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Create(context.Background(), f.userID, CreateReviewInput{
			AgentSlug: "invoice-sorter",
			Rating:    rating,
		})
		expectCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestCreateSecondReviewConflicts(t *testing.T) {
	now := time.Now()
	purchasedAt := now.Add(-30 * 24 * time.Hour)
	f := newFixture(t, &purchasedAt, now)

	input := CreateReviewInput{AgentSlug: "invoice-sorter", Rating: 4}
	if _, err := f.svc.Create(context.Background(), f.userID, input); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := f.svc.Create(context.Background(), f.userID, input)
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateUnknownAgentIsNotFound(t *testing.T) {
	f := newFixture(t, nil, time.Now())

	_, err := f.svc.Create(context.Background(), f.userID, CreateReviewInput{
		AgentSlug: "missing",
		Rating:    5,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}
