package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/pkg/cache"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// CatalogService serves the cached snapshot and performs every admin write.
// Writes read the store directly, never the cache, and invalidate the cache
// once they succeed.
type CatalogService struct {
	repo      *repositories.SnapshotRepository
	snapshots *cache.TTL[models.Snapshot]
	now       func() time.Time
}

func NewCatalogService(repo *repositories.SnapshotRepository, ttl time.Duration) *CatalogService {
	return &CatalogService{
		repo: repo,
		snapshots: cache.New("snapshot", ttl, repo.ReadSnapshot,
			cache.WithFallback(models.DefaultSnapshot),
			cache.WithClone(models.Snapshot.Clone)),
		now: time.Now,
	}
}

// Snapshot returns the cached catalog. It never fails: a store outage
// yields the last good snapshot or the defaults.
func (s *CatalogService) Snapshot(ctx context.Context) models.Snapshot {
	return s.snapshots.Get(ctx)
}

func (s *CatalogService) Invalidate() {
	s.snapshots.Invalidate()
}

// SaveProduct inserts p (ID 0 gets max+1) or overwrites the product with the
// same id in place, keeping its createdAt.
func (s *CatalogService) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	current, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return models.Product{}, err
	}

	stamp := s.timestamp()
	p.UpdatedAt = stamp
	products := current.Products

	if p.ID == 0 {
		p.ID = current.MaxProductID() + 1
	}
	existing := -1
	for i := range products {
		if products[i].ID == p.ID {
			existing = i
			break
		}
	}
	if existing >= 0 && products[existing].CreatedAt != "" {
		p.CreatedAt = products[existing].CreatedAt
	}
	if p.CreatedAt == "" {
		p.CreatedAt = stamp
	}
	if existing >= 0 {
		products[existing] = p
	} else {
		products = append(products, p)
	}

	if err := s.repo.WriteProducts(ctx, products); err != nil {
		return models.Product{}, err
	}
	s.Invalidate()
	logger.WithCtx(ctx).Info("product saved", "id", p.ID, "created", existing < 0)
	return p, nil
}

// DeleteProduct removes the product with id. Deleting an unknown id succeeds
// without touching the store.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	current, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Product, 0, len(current.Products))
	for _, p := range current.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(current.Products) {
		return nil
	}
	if err := s.repo.WriteProducts(ctx, kept); err != nil {
		return err
	}
	s.Invalidate()
	logger.WithCtx(ctx).Info("product deleted", "id", id)
	return nil
}

// SaveCategory upserts c by id.
func (s *CatalogService) SaveCategory(ctx context.Context, c models.Category) (models.Category, error) {
	current, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return models.Category{}, err
	}
	categories := current.Categories
	found := false
	for i := range categories {
		if categories[i].ID == c.ID {
			categories[i] = c
			found = true
			break
		}
	}
	if !found {
		categories = append(categories, c)
	}
	if err := s.repo.WriteCategories(ctx, categories); err != nil {
		return models.Category{}, err
	}
	s.Invalidate()
	return c, nil
}

// DeleteCategory removes the category and clears it on every product that
// referenced it. Both tabs are written concurrently.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	current, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return err
	}

	categories := make([]models.Category, 0, len(current.Categories))
	for _, c := range current.Categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	products := current.Products
	unlinked := 0
	for i := range products {
		if products[i].Category == id {
			products[i].Category = ""
			unlinked++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.repo.WriteProducts(gctx, products) })
	g.Go(func() error { return s.repo.WriteCategories(gctx, categories) })
	if err := g.Wait(); err != nil {
		// either tab may already be written; a stale cache would hide that
		s.Invalidate()
		return err
	}
	s.Invalidate()
	logger.WithCtx(ctx).Info("category deleted", "id", id, "unlinked_products", unlinked)
	return nil
}

// SaveSettings merges values into the stored key/value rows. Keys the
// application does not know are preserved.
func (s *CatalogService) SaveSettings(ctx context.Context, values map[string]string) error {
	current, err := s.repo.ReadSettingValues(ctx)
	if err != nil {
		return err
	}
	merged := models.DefaultSettings().Values()
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	if err := s.repo.WriteSettings(ctx, merged); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Products   int  `json:"products"`
	Categories int  `json:"categories"`
	Settings   bool `json:"settings"`
}

// Import replaces the products and categories tabs wholesale when the
// payload carries them and merges any settings. Products without an id are
// numbered after the highest imported id; a repeated id keeps the later row
// in the earlier position.
func (s *CatalogService) Import(ctx context.Context, in requests.Import) (ImportResult, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	if in.Products != nil {
		products := assignProductIDs(in.Products)
		stamp := s.timestamp()
		for i := range products {
			if products[i].CreatedAt == "" {
				products[i].CreatedAt = stamp
			}
		}
		if err := s.repo.WriteProducts(ctx, products); err != nil {
			return res, err
		}
		res.Products = len(products)
	}
	if in.Categories != nil {
		categories := dedupeCategories(in.Categories)
		if err := s.repo.WriteCategories(ctx, categories); err != nil {
			s.Invalidate()
			return res, err
		}
		res.Categories = len(categories)
	}
	if len(in.Settings) > 0 {
		if err := s.SaveSettings(ctx, in.Settings); err != nil {
			s.Invalidate()
			return res, err
		}
		res.Settings = true
	}

	s.Invalidate()
	logger.WithCtx(ctx).Info("catalog imported",
		"products", res.Products, "categories", res.Categories, "settings", res.Settings)
	return res, nil
}

// Seed imports the built-in demo catalog.
func (s *CatalogService) Seed(ctx context.Context) (ImportResult, error) {
	demo := models.DemoSnapshot()
	return s.Import(ctx, requests.Import{
		Products:   demo.Products,
		Categories: demo.Categories,
		Settings:   demo.Settings.Values(),
	})
}

func (s *CatalogService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func assignProductIDs(in []models.Product) []models.Product {
	next := 1
	for _, p := range in {
		if p.ID >= next {
			next = p.ID + 1
		}
	}

	out := make([]models.Product, 0, len(in))
	index := make(map[int]int, len(in))
	for _, p := range in {
		if p.ID <= 0 {
			p.ID = next
			next++
		}
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func dedupeCategories(in []models.Category) []models.Category {
	out := make([]models.Category, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		if i, ok := index[c.ID]; ok {
			out[i] = c
			continue
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}
