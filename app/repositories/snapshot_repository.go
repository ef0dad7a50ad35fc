package repositories

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/metrics"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

// SnapshotRepository maps the catalog onto the three tabs of a table.Backend.
type SnapshotRepository struct {
	store table.Backend
	now   func() time.Time
}

func NewSnapshotRepository(store table.Backend) *SnapshotRepository {
	return &SnapshotRepository{store: store, now: time.Now}
}

// ReadSnapshot reads all tabs concurrently. Any failed read fails the whole
// call so a write never rebuilds a row-set from a partial view.
func (r *SnapshotRepository) ReadSnapshot(ctx context.Context) (models.Snapshot, error) {
	var products, categories, settings [][]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = r.read(gctx, ProductsTab)
		return err
	})
	g.Go(func() (err error) {
		categories, err = r.read(gctx, CategoriesTab)
		return err
	})
	g.Go(func() (err error) {
		settings, err = r.read(gctx, SettingsTab)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		Settings:   models.SettingsFromValues(parseSettings(settings)),
		Categories: parseCategories(categories),
		Products:   parseProducts(products),
	}
	logger.WithCtx(ctx).Debug("snapshot read",
		"products", len(snap.Products), "categories", len(snap.Categories))
	return snap, nil
}

// ReadSettingValues returns the raw key/value rows of the Settings tab,
// including keys the application does not know about.
func (r *SnapshotRepository) ReadSettingValues(ctx context.Context) (map[string]string, error) {
	rows, err := r.read(ctx, SettingsTab)
	if err != nil {
		return nil, err
	}
	return parseSettings(rows), nil
}

func (r *SnapshotRepository) WriteProducts(ctx context.Context, products []models.Product) error {
	return r.replace(ctx, ProductsTab, productRows(products, r.now()))
}

func (r *SnapshotRepository) WriteCategories(ctx context.Context, categories []models.Category) error {
	return r.replace(ctx, CategoriesTab, categoryRows(categories))
}

func (r *SnapshotRepository) WriteSettings(ctx context.Context, values map[string]string) error {
	return r.replace(ctx, SettingsTab, settingsRows(values))
}

// EnsureSchema creates missing tabs and writes a header row into tabs that
// are empty. Existing data is never touched.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	existing, err := r.store.Tabs(ctx)
	metrics.ObserveStore("tabs", err)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t] = true
	}

	order := []string{ProductsTab, CategoriesTab, SettingsTab}
	var missing []string
	for _, t := range order {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		err := r.store.AddTabs(ctx, missing...)
		metrics.ObserveStore("add_tabs", err)
		if err != nil {
			return err
		}
		logger.WithCtx(ctx).Info("store tabs created", "tabs", missing)
	}

	headers := Headers()
	for _, t := range order {
		rows, err := r.read(ctx, t)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			continue
		}
		if err := r.replace(ctx, t, [][]string{headers[t]}); err != nil {
			return err
		}
	}
	return nil
}

// Ping tests the connection and returns the store title.
func (r *SnapshotRepository) Ping(ctx context.Context) (string, error) {
	title, err := r.store.Ping(ctx)
	metrics.ObserveStore("ping", err)
	return title, err
}

func (r *SnapshotRepository) read(ctx context.Context, tab string) ([][]string, error) {
	rows, err := r.store.Read(ctx, tab)
	metrics.ObserveStore("read", err)
	return rows, err
}

func (r *SnapshotRepository) replace(ctx context.Context, tab string, rows [][]string) error {
	err := r.store.Replace(ctx, tab, rows)
	metrics.ObserveStore("replace", err)
	if err != nil {
		logger.WithCtx(ctx).Error("store write failed", "tab", tab, "error", err)
	}
	return err
}
