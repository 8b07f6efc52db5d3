package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// Read-only consistency sweep over the marketplace tables. Every finding is
// reported; nothing is fixed here.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "verify-data"})

	_ = godotenv.Load()
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "verify-data",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	var findings error

	findings = multierr.Append(findings, checkPurchaseCounts(ctx, dbClient, logg))
	findings = multierr.Append(findings, checkSellerProfiles(ctx, dbClient, logg))
	findings = multierr.Append(findings, checkReviewEligibility(ctx, dbClient, cfg.Reviews.EligibilityDays, logg))

	problems := multierr.Errors(findings)
	if len(problems) == 0 {
		fmt.Println("all checks passed")
		return
	}

	fmt.Fprintf(os.Stderr, "%d problem(s) found:\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "  - %v\n", p)
	}
	os.Exit(1)
}

// checkPurchaseCounts compares each agent's denormalized purchase_count with
// the actual purchase rows.
func checkPurchaseCounts(ctx context.Context, dbClient *db.Client, logg *logger.Logger) error {
	type drift struct {
		Slug          string
		PurchaseCount int64
		Actual        int64
	}

	var rows []drift
	err := dbClient.Raw(ctx, `
		SELECT a.slug, a.purchase_count, COUNT(p.id) AS actual
		FROM agents a
		LEFT JOIN purchases p ON p.agent_id = a.id
		GROUP BY a.id, a.slug, a.purchase_count
		HAVING a.purchase_count <> COUNT(p.id)`).Scan(&rows).Error
	if err != nil {
		logg.Error(ctx, "purchase count check failed to run", err)
		return fmt.Errorf("purchase count check did not run: %w", err)
	}

	var findings error
	for _, d := range rows {
		findings = multierr.Append(findings, fmt.Errorf(
			"agent %s: purchase_count=%d but %d purchase rows", d.Slug, d.PurchaseCount, d.Actual))
	}
	return findings
}

// checkSellerProfiles flags profiles whose owning user is gone or still a buyer.
func checkSellerProfiles(ctx context.Context, dbClient *db.Client, logg *logger.Logger) error {
	type orphan struct {
		PortfolioSlug string
		Role          *string
	}

	var rows []orphan
	err := dbClient.Raw(ctx, `
		SELECT sp.portfolio_slug, u.role
		FROM seller_profiles sp
		LEFT JOIN users u ON u.id = sp.user_id
		WHERE u.id IS NULL OR u.role = 'buyer'`).Scan(&rows).Error
	if err != nil {
		logg.Error(ctx, "seller profile check failed to run", err)
		return fmt.Errorf("seller profile check did not run: %w", err)
	}

	var findings error
	for _, o := range rows {
		if o.Role == nil {
			findings = multierr.Append(findings, fmt.Errorf(
				"seller profile %s: owning user missing", o.PortfolioSlug))
			continue
		}
		findings = multierr.Append(findings, fmt.Errorf(
			"seller profile %s: owning user still has role %s", o.PortfolioSlug, *o.Role))
	}
	return findings
}

// checkReviewEligibility flags reviews with no backing purchase, or written
// before the eligibility window elapsed.
func checkReviewEligibility(ctx context.Context, dbClient *db.Client, eligibilityDays int, logg *logger.Logger) error {
	type violation struct {
		ReviewID string
		Reason   string
	}

	var rows []violation
	err := dbClient.Raw(ctx, `
		SELECT r.id AS review_id,
		       CASE WHEN p.id IS NULL THEN 'no purchase' ELSE 'before window' END AS reason
		FROM reviews r
		LEFT JOIN purchases p ON p.user_id = r.user_id AND p.agent_id = r.agent_id
		WHERE p.id IS NULL
		   OR r.created_at < p.created_at + (? * interval '1 day')`, eligibilityDays).Scan(&rows).Error
	if err != nil {
		logg.Error(ctx, "review eligibility check failed to run", err)
		return fmt.Errorf("review eligibility check did not run: %w", err)
	}

	var findings error
	for _, v := range rows {
		findings = multierr.Append(findings, fmt.Errorf("review %s: %s", v.ReviewID, v.Reason))
	}
	return findings
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
