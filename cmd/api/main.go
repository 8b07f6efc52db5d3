package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentmart/agentmart-backend/api/routes"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/adminlog"
	"github.com/agentmart/agentmart-backend/internal/agents"
	"github.com/agentmart/agentmart-backend/internal/auth"
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
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/metrics"
	"github.com/agentmart/agentmart-backend/pkg/migrate"
	"github.com/agentmart/agentmart-backend/pkg/redis"
	"github.com/agentmart/agentmart-backend/web"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userRepo,
		Sessions:  sessionManager,
		Tokens:    redisClient,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		Pages:     cfg.Pages,
		Validator: validators.Validator(),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categories.ServiceParams{
		Repo:     categories.NewRepository(gormDB),
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CategoriesCacheTTL,
		Logger:   logg,
		Metrics:  httpMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	agentService, err := agents.NewService(agents.ServiceParams{
		Repo:              agents.NewRepository(gormDB),
		Categories:        categories.NewRepository(gormDB),
		AdminLogs:         adminlog.NewRepository(gormDB),
		TransactionRunner: dbClient,
		Validator:         validators.Validator(),
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create agents service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Repo:              purchases.NewRepository(gormDB),
		Agents:            agents.NewRepository(gormDB),
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:              reviews.NewRepository(gormDB),
		Agents:            agents.NewRepository(gormDB),
		Purchases:         purchases.NewRepository(gormDB),
		EligibilityWindow: cfg.Reviews.EligibilityWindow(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	sellerService, err := sellers.NewService(sellers.ServiceParams{
		Repo:              sellers.NewRepository(gormDB),
		UserRepo:          userRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sellers service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(support.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	subscriptionResolver, err := subscriptions.NewResolver(subscriptions.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription resolver", err)
		os.Exit(1)
	}

	pageGuard := web.NewGuard(web.GuardParams{
		JWT:        cfg.JWT,
		Verifier:   sessionManager,
		CookieName: cfg.Pages.SessionCookie,
		Logger:     logg,
	})
	pages, err := web.NewPages(web.PagesParams{
		Guard:      pageGuard,
		Categories: categoryService,
		Markdown:   web.NewMarkdownRenderer(),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build pages", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:        cfg,
		Logger:        logg,
		Metrics:       httpMetrics,
		DBPinger:      dbClient,
		RedisPinger:   redisClient,
		RateLimiter:   redisClient,
		Sessions:      sessionManager,
		Auth:          authService,
		Users:         userService,
		Categories:    categoryService,
		Agents:        agentService,
		Purchases:     purchaseService,
		Reviews:       reviewService,
		Sellers:       sellerService,
		Support:       supportService,
		Subscriptions: subscriptionResolver,
		Pages:         pages,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
