package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agentmart/agentmart-backend/internal/agents"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// Fills in thumbnail URLs for listings that never got one, pointing them at
// the static thumbnail service.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "backfill-thumbnails"})

	_ = godotenv.Load()

	baseURL := flag.String("base-url", "", "thumbnail base URL, e.g. https://cdn.agentmart.dev/thumbs")
	flag.Parse()

	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "missing -base-url")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "backfill-thumbnails",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	repo := agents.NewRepository(dbClient.DB())

	rows, err := repo.ListMissingThumbnails(ctx)
	if err != nil {
		logg.Error(ctx, "failed to list agents missing thumbnails", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("nothing to backfill")
		return
	}

	base := strings.TrimRight(*baseURL, "/")
	updated := 0
	failed := 0
	for _, agent := range rows {
		url := fmt.Sprintf("%s/%s.png", base, agent.Slug)
		if err := repo.UpdateThumbnail(ctx, agent.ID, url); err != nil {
			logg.Error(logg.WithField(ctx, "slug", agent.Slug), "failed to set thumbnail", err)
			failed++
			continue
		}
		updated++
	}

	fmt.Printf("backfilled %d of %d listings (%d failed)\n", updated, len(rows), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
