package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pos-checkout/internal/handler/middleware"
	"pos-checkout/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

const migrateTimeout = 5 * time.Minute

func main() {
	cfg, err := config.LoadMigrateConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	middleware.NewLogger(config.LogConfig{Level: "info", TimeZone: "UTC", TimeFormat: time.RFC3339})

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.MigrateConfig) error {
	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}

	client, err := atlasexec.NewClient(".", cfg.AtlasBinary)
	if err != nil {
		return fmt.Errorf("init atlas client: %w", err)
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DirURL: "file://" + dir,
		DryRun: cfg.DryRun,
	})
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, f := range res.Applied {
		slog.Info("migration applied", "version", f.Version, "description", f.Description)
	}
	slog.Info("database is up to date",
		"current", res.Current,
		"target", res.Target,
		"applied", len(res.Applied),
		"dry_run", cfg.DryRun)
	return nil
}
