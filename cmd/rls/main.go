package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/db"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// knownTables is every table the app owns, in dependency order.
var knownTables = []string{
	"users",
	"seller_profiles",
	"categories",
	"agents",
	"purchases",
	"reviews",
	"subscriptions",
	"support_requests",
	"admin_logs",
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "rls"})

	_ = godotenv.Load()

	action := flag.String("action", "", "enable or disable row-level security")
	table := flag.String("table", "", "single table to toggle (all known tables when omitted)")
	flag.Parse()

	var verb string
	switch *action {
	case "enable":
		verb = "ENABLE"
	case "disable":
		verb = "DISABLE"
	default:
		fmt.Fprintln(os.Stderr, "-action must be enable or disable")
		os.Exit(1)
	}

	targets := knownTables
	if *table != "" {
		if !isKnownTable(*table) {
			fmt.Fprintf(os.Stderr, "unknown table %q\n", *table)
			os.Exit(1)
		}
		targets = []string{*table}
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "rls",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	failed := 0
	for _, t := range targets {
		if err := dbClient.Exec(ctx, rlsStatement(t, verb)).Error; err != nil {
			logg.Error(logg.WithField(ctx, "table", t), "failed to toggle row-level security", err)
			failed++
			continue
		}
		fmt.Printf("%s: row-level security %sd\n", t, *action)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d tables failed\n", failed, len(targets))
		os.Exit(1)
	}
}

func rlsStatement(table, verb string) string {
	return fmt.Sprintf("ALTER TABLE %s %s ROW LEVEL SECURITY", pq.QuoteIdentifier(table), verb)
}

func isKnownTable(name string) bool {
	for _, t := range knownTables {
		if t == name {
			return true
		}
	}
	return false
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
