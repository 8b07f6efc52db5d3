package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/auth"
	"github.com/agentmart/agentmart-backend/internal/users"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/redis"
	"github.com/agentmart/agentmart-backend/pkg/security"
)

const tempPasswordLength = 16

// Resets an account to a generated temporary password, for operators helping
// a locked-out user.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "password-reset"})

	_ = godotenv.Load()

	email := flag.String("email", "", "email of the account to reset")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "password-reset",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     users.NewRepository(dbClient.DB()),
		Sessions:  sessionManager,
		Tokens:    redisClient,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		Pages:     cfg.Pages,
		Validator: validators.Validator(),
		Logger:    logg,
	})
	requireResource(ctx, logg, "auth service", err)

	token, err := authService.RequestPasswordReset(ctx, *email)
	if err != nil {
		logg.Error(ctx, "failed to issue reset token", err)
		os.Exit(1)
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		logg.Error(ctx, "failed to generate temporary password", err)
		os.Exit(1)
	}

	if err := authService.CompletePasswordReset(ctx, token, tempPassword); err != nil {
		logg.Error(ctx, "failed to apply temporary password", err)
		os.Exit(1)
	}

	fmt.Printf("password reset for %s\n", *email)
	fmt.Printf("temporary password: %s\n", tempPassword)
	fmt.Println("ask the user to sign in and change it immediately")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
