package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
)

type stubFinder struct {
	sub *models.Subscription
	err error
}

func (s stubFinder) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return s.sub, s.err
}

func timePtr(t time.Time) *time.Time { return &t }

func TestResolveNoSubscriptionMeansNoAccess(t *testing.T) {
	res, err := NewResolver(stubFinder{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	state, err := res.Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state.HasAccess {
		t.Fatalf("expected no access without a subscription row")
	}
	if state.Status != StatusNone {
		t.Fatalf("expected status %q got %q", StatusNone, state.Status)
	}
	if state.CurrentPeriodEnd != nil || state.TrialEnd != nil {
		t.Fatalf("expected nil timestamps, got %+v", state)
	}
}

func TestResolveRequiresUserID(t *testing.T) {
	res, _ := NewResolver(stubFinder{})
	if _, err := res.Resolve(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected validation error for nil user id")
	}
}

func TestDeriveTable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := timePtr(now.Add(72 * time.Hour))
	past := timePtr(now.Add(-72 * time.Hour))

	tests := []struct {
		name      string
		sub       *models.Subscription
		hasAccess bool
		isTrial   bool
		isLegacy  bool
	}{
		{
			name:      "active standard",
			sub:       &models.Subscription{Status: enums.SubscriptionStatusActive, Plan: enums.SubscriptionPlanStandard},
			hasAccess: true,
		},
		{
			name: "trialing with future trial end",
			sub: &models.Subscription{
				Status:   enums.SubscriptionStatusTrialing,
				Plan:     enums.SubscriptionPlanStandard,
				TrialEnd: future,
			},
			hasAccess: true,
			isTrial:   true,
		},
		{
			name: "trialing after trial expired",
			sub: &models.Subscription{
				Status:   enums.SubscriptionStatusTrialing,
				Plan:     enums.SubscriptionPlanStandard,
				TrialEnd: past,
			},
			hasAccess: false,
		},
		{
			name:      "past due standard loses access",
			sub:       &models.Subscription{Status: enums.SubscriptionStatusPastDue, Plan: enums.SubscriptionPlanStandard},
			hasAccess: false,
		},
		{
			name:      "past due legacy keeps access",
			sub:       &models.Subscription{Status: enums.SubscriptionStatusPastDue, Plan: enums.SubscriptionPlanLegacy},
			hasAccess: true,
			isLegacy:  true,
		},
		{
			name:      "canceled legacy has no access",
			sub:       &models.Subscription{Status: enums.SubscriptionStatusCanceled, Plan: enums.SubscriptionPlanLegacy},
			hasAccess: false,
			isLegacy:  true,
		},
		{
			name: "cancel at period end keeps access until period passes",
			sub: &models.Subscription{
				Status:            enums.SubscriptionStatusActive,
				Plan:              enums.SubscriptionPlanStandard,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  future,
			},
			hasAccess: true,
		},
		{
			name: "cancel at period end after period passed",
			sub: &models.Subscription{
				Status:            enums.SubscriptionStatusActive,
				Plan:              enums.SubscriptionPlanStandard,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  past,
			},
			hasAccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Derive(tt.sub, now)
			if state.HasAccess != tt.hasAccess {
				t.Fatalf("hasAccess: expected %v got %v", tt.hasAccess, state.HasAccess)
			}
			if state.IsTrial != tt.isTrial {
				t.Fatalf("isTrial: expected %v got %v", tt.isTrial, state.IsTrial)
			}
			if state.IsLegacy != tt.isLegacy {
				t.Fatalf("isLegacy: expected %v got %v", tt.isLegacy, state.IsLegacy)
			}
			if state.Status != tt.sub.Status.String() {
				t.Fatalf("status passthrough: expected %q got %q", tt.sub.Status, state.Status)
			}
		})
	}
}
