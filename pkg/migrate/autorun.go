package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
)

// AutoRun applies the embedded migrations on boot when the feature flag is on.
func AutoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	return Apply(ctx, logg, client)
}

// Apply runs every pending embedded migration against client.
func Apply(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"dialect": client.Dialect()})
		logg.Info(ctx, "running goose migrations")
	}

	if err := Up(ctx, sqlDB, client.Dialect()); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "goose migrations completed")
	}
	return nil
}
