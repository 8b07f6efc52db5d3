package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentmart/agentmart-backend/api/controllers"
	"github.com/agentmart/agentmart-backend/api/middleware"
	"github.com/agentmart/agentmart-backend/internal/agents"
	internalauth "github.com/agentmart/agentmart-backend/internal/auth"
	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/internal/purchases"
	"github.com/agentmart/agentmart-backend/internal/reviews"
	"github.com/agentmart/agentmart-backend/internal/sellers"
	"github.com/agentmart/agentmart-backend/internal/subscriptions"
	"github.com/agentmart/agentmart-backend/internal/support"
	"github.com/agentmart/agentmart-backend/internal/users"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/metrics"
	"github.com/agentmart/agentmart-backend/pkg/redis"
	"github.com/agentmart/agentmart-backend/web"
)

// RateLimitStore is the counter surface backing the auth rate limiter.
type RateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Metrics       *metrics.HTTPMetrics
	DBPinger      db.Pinger
	RedisPinger   redis.Pinger
	RateLimiter   RateLimitStore
	Sessions      session.AccessSessionChecker
	Auth          internalauth.Service
	Users         users.Service
	Categories    categories.Service
	Agents        agents.Service
	Purchases     purchases.Service
	Reviews       reviews.Service
	Sellers       sellers.Service
	Support       support.Service
	Subscriptions subscriptions.Resolver
	Pages         *web.Pages
}

// NewRouter wires the full API route tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	authParams := middleware.AuthParams{
		JWT:        cfg.JWT,
		Verifier:   p.Sessions,
		CookieName: cfg.Pages.SessionCookie,
		Logger:     logg,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/auth/callback", controllers.AuthCallback(p.Auth, cfg, logg))

	if p.Pages != nil {
		p.Pages.Routes(r)
	}

	r.Route("/api", func(r chi.Router) {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		registerPolicy := middleware.NewAuthRateLimitPolicy(
			"register",
			cfg.AuthRateLimit.RegisterWindow,
			cfg.AuthRateLimit.RegisterIPLimit,
			cfg.AuthRateLimit.RegisterEmailLimit,
		)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.RateLimiter, logg)).Post("/register", controllers.AuthRegister(p.Auth, cfg, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/login", controllers.AuthLogin(p.Auth, cfg, logg))
			r.Post("/logout", controllers.AuthLogout(p.Auth, cfg, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.Auth, cfg, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/password-reset/request", controllers.AuthPasswordResetRequest(p.Auth, logg))
			r.Post("/password-reset/complete", controllers.AuthPasswordResetComplete(p.Auth, logg))
		})

		r.Get("/categories", controllers.Categories(p.Categories, cfg.Catalog, logg))
		r.Get("/user/role", controllers.UserRole(p.Users, logg))
		r.Get("/user/subscription", controllers.UserSubscription(p.Subscriptions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(authParams))
			r.Get("/agents", controllers.AgentsList(p.Agents, logg))
			r.Get("/agents/{slug}", controllers.AgentDetail(p.Agents, logg))
			r.Get("/agents/{slug}/reviews", controllers.AgentReviews(p.Reviews, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authParams))

			r.Post("/purchases", controllers.PurchaseCreate(p.Purchases, logg))
			r.Get("/purchases", controllers.PurchasesList(p.Purchases, logg))
			r.Post("/reviews", controllers.ReviewCreate(p.Reviews, logg))
			r.Post("/support", controllers.SupportCreate(p.Support, logg))
			r.Get("/support", controllers.SupportList(p.Support, logg))
			r.Post("/sellers", controllers.SellerCreate(p.Sellers, logg))
			r.Get("/sellers/me", controllers.SellerMe(p.Sellers, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleSeller), string(enums.UserRoleAdmin)))
				r.Post("/agents", controllers.AgentCreate(p.Agents, logg))
				r.Post("/agents/{slug}/submit", controllers.AgentSubmit(p.Agents, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleAdmin)))
				r.Post("/agents/{slug}/decision", controllers.AdminAgentDecision(p.Agents, logg))
			})
		})
	})

	return r
}
