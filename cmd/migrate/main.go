package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/migrations"
	"fulfillment/internal/pkg/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	command := flag.String("cmd", "up", "migration command: up|down|status|version|redo|reset|up-to|down-to")
	flag.Parse()

	cfg, err := cmd.LoadMigrateConfig()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithField(context.Background(), "cmd", *command)

	db, err := sql.Open("postgres", cfg.DB.DSN)
	requireResource(ctx, logg, "database", err)
	defer db.Close()

	requireResource(ctx, logg, "database", db.PingContext(ctx))

	logg.Info(ctx, "migrate ready")

	// up-to and down-to take the target version as the first positional argument.
	if err := migrations.Run(ctx, db, *command, flag.Args()...); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
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
