package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// StatusNone is reported when the user has no subscription row at all.
const StatusNone = "none"

// State is the derived access snapshot for one user. It is computed from the
// stored billing fields on every call and never persisted.
type State struct {
	HasAccess         bool       `json:"hasAccess"`
	Status            string     `json:"status"`
	IsTrial           bool       `json:"isTrial"`
	IsLegacy          bool       `json:"isLegacy"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd"`
	TrialEnd          *time.Time `json:"trialEnd"`
}

type subscriptionFinder interface {
	FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// Resolver derives subscription access state for a user.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*State, error)
}

type resolver struct {
	repo subscriptionFinder
	now  func() time.Time
}

// NewResolver wires the subscription lookup dependency.
func NewResolver(repo subscriptionFinder) (Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions repository required")
	}
	return &resolver{repo: repo, now: time.Now}, nil
}

// Resolve maps the raw billing fields onto the access snapshot. A user with
// no subscription row resolves to no access rather than an error.
func (r *resolver) Resolve(ctx context.Context, userID uuid.UUID) (*State, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	sub, err := r.repo.FindLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &State{HasAccess: false, Status: StatusNone}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}

	return Derive(sub, r.now().UTC()), nil
}

// Derive computes the access snapshot from one subscription row at the given
// instant. Rules:
//   - trialing counts only while trial_end is in the future
//   - legacy-plan subscribers keep access unless canceled
//   - cancel_at_period_end keeps access until current_period_end passes
func Derive(sub *models.Subscription, now time.Time) *State {
	if sub == nil {
		return &State{HasAccess: false, Status: StatusNone}
	}

	state := &State{
		Status:            sub.Status.String(),
		IsLegacy:          sub.Plan == enums.SubscriptionPlanLegacy,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		TrialEnd:          sub.TrialEnd,
	}

	state.IsTrial = sub.Status == enums.SubscriptionStatusTrialing &&
		sub.TrialEnd != nil && sub.TrialEnd.After(now)

	switch {
	case sub.Status == enums.SubscriptionStatusActive:
		state.HasAccess = true
	case state.IsTrial:
		state.HasAccess = true
	case state.IsLegacy && sub.Status != enums.SubscriptionStatusCanceled:
		state.HasAccess = true
	}

	if state.HasAccess && sub.CancelAtPeriodEnd &&
		sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(now) {
		state.HasAccess = false
	}

	return state
}
