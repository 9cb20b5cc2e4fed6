package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"archive-backend/internal/shared/config"
	"archive-backend/internal/shared/storage/db"
	"archive-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	dsn, err := db.ResolveDSN(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		telemetry.Error("migrate.config", map[string]any{"error": err})
		os.Exit(1)
	}
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, dsn, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
