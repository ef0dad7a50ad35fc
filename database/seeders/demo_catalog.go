package seeders

import (
	"context"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// SeedDemoCatalog writes the built-in demo catalog into a store that has no
// products yet. A store with data is left alone.
func SeedDemoCatalog(ctx context.Context, repo *repositories.SnapshotRepository) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	current, err := repo.ReadSnapshot(ctx)
	if err != nil {
		return err
	}
	if len(current.Products) > 0 {
		logger.WithCtx(ctx).Info("seed skipped, store already has products", "products", len(current.Products))
		return nil
	}

	demo := models.DemoSnapshot()
	if err := repo.WriteCategories(ctx, demo.Categories); err != nil {
		return err
	}
	if err := repo.WriteProducts(ctx, demo.Products); err != nil {
		return err
	}
	return repo.WriteSettings(ctx, demo.Settings.Values())
}
