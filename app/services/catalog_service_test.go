package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/pkg/storage"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

func newCatalog(t *testing.T) (*services.CatalogService, *repositories.SnapshotRepository, *table.Memory) {
	t.Helper()
	mem := table.NewMemory("test")
	repo := repositories.NewSnapshotRepository(mem)
	catalog := services.NewCatalogService(repo, time.Minute)
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)
	return catalog, repo, mem
}

func variantProduct(name string) models.Product {
	return models.Product{
		Name:     name,
		Image:    "https://cdn.example.com/p.png",
		Category: "fertilizer",
		Rating:   4,
		Variants: []models.Variant{{Weight: "1 kg", Price: 100, IsMain: true}},
	}
}

func TestSnapshotIsServedFromCache(t *testing.T) {
	catalog, _, mem := newCatalog(t)
	ctx := context.Background()

	first := catalog.Snapshot(ctx)
	reads := mem.Reads()
	second := catalog.Snapshot(ctx)

	assert.Equal(t, reads, mem.Reads(), "fresh cache must not hit the store")
	assert.Equal(t, first.Products, second.Products)
	assert.Len(t, first.Products, 12)
}

func TestSnapshotFallsBackWhenStoreIsDown(t *testing.T) {
	mem := table.NewMemory("test")
	mem.SetFailure(assert.AnError)
	catalog := services.NewCatalogService(repositories.NewSnapshotRepository(mem), time.Minute)

	snap := catalog.Snapshot(context.Background())
	assert.Empty(t, snap.Products)
	assert.Equal(t, models.DefaultWhatsAppNumber, snap.WhatsAppNumber)
}

func TestSaveProductAssignsNextID(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	ctx := context.Background()
	catalog.Snapshot(ctx)

	saved, err := catalog.SaveProduct(ctx, variantProduct("New seed"))
	require.NoError(t, err)
	assert.Equal(t, 13, saved.ID)
	assert.NotEmpty(t, saved.CreatedAt)
	assert.NotEmpty(t, saved.UpdatedAt)

	got, ok := catalog.Snapshot(ctx).ProductByID(13)
	require.True(t, ok, "write must invalidate the cache")
	assert.Equal(t, "New seed", got.Name)
}

func TestSaveProductOverwritesInPlaceKeepingCreatedAt(t *testing.T) {
	catalog, repo, _ := newCatalog(t)
	ctx := context.Background()

	before, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	original, _ := before.ProductByID(3)

	p := variantProduct("DAP renamed")
	p.ID = 3
	p.CreatedAt = "1999-01-01T00:00:00Z"
	_, err = catalog.SaveProduct(ctx, p)
	require.NoError(t, err)

	after, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, after.Products, 12)
	assert.Equal(t, 3, after.Products[2].ID, "position is kept")
	assert.Equal(t, "DAP renamed", after.Products[2].Name)
	assert.Equal(t, original.CreatedAt, after.Products[2].CreatedAt)
}

func TestSaveProductFailsWhenStoreIsDown(t *testing.T) {
	catalog, _, mem := newCatalog(t)
	ctx := context.Background()
	cached := catalog.Snapshot(ctx)

	mem.SetFailure(assert.AnError)
	_, err := catalog.SaveProduct(ctx, variantProduct("Lost"))
	assert.ErrorIs(t, err, table.ErrUnavailable)
	assert.Equal(t, cached.Products, catalog.Snapshot(ctx).Products)
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	catalog, repo, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.DeleteProduct(ctx, 5))
	require.NoError(t, catalog.DeleteProduct(ctx, 5))
	require.NoError(t, catalog.DeleteProduct(ctx, 999))

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Products, 11)
	_, ok := snap.ProductByID(5)
	assert.False(t, ok)
}

func TestDeleteCategoryUnlinksProducts(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.DeleteCategory(ctx, "pesticide"))

	snap := catalog.Snapshot(ctx)
	_, ok := snap.CategoryByID("pesticide")
	assert.False(t, ok)
	assert.Len(t, snap.Products, 12)
	for _, p := range snap.Products {
		assert.NotEqual(t, "pesticide", p.Category)
	}
	assert.Len(t, snap.ProductsByCategory("fertilizer"), 6)
}

func TestSaveCategoryUpserts(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	ctx := context.Background()

	_, err := catalog.SaveCategory(ctx, models.Category{ID: "seeds", Name: "Seeds", Icon: models.DefaultCategoryIcon})
	require.NoError(t, err)
	_, err = catalog.SaveCategory(ctx, models.Category{ID: "seeds", Name: "Hybrid Seeds", Icon: "fas fa-leaf"})
	require.NoError(t, err)

	snap := catalog.Snapshot(ctx)
	assert.Len(t, snap.Categories, 3)
	c, ok := snap.CategoryByID("seeds")
	require.True(t, ok)
	assert.Equal(t, "Hybrid Seeds", c.Name)
}

func TestSaveSettingsMergesAndKeepsUnknownKeys(t *testing.T) {
	catalog, repo, _ := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, repo.WriteSettings(ctx, map[string]string{"legacyKey": "kept", models.KeyContactEmail: "old@example.com"}))

	require.NoError(t, catalog.SaveSettings(ctx, map[string]string{models.KeyBannerImage: "https://cdn.example.com/b.png"}))

	values, err := repo.ReadSettingValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", values["legacyKey"])
	assert.Equal(t, "old@example.com", values[models.KeyContactEmail])
	assert.Equal(t, "https://cdn.example.com/b.png", catalog.Snapshot(ctx).BannerImage)
}

func TestImportAssignsIDsAndDedupes(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	ctx := context.Background()

	a, b, c, d := variantProduct("A"), variantProduct("B"), variantProduct("C"), variantProduct("B2")
	a.ID, b.ID, d.ID = 7, 3, 3
	res, err := catalog.Import(ctx, requests.Import{
		Products:   []models.Product{a, b, c, d},
		Categories: []models.Category{{ID: "x", Name: "X"}, {ID: "x", Name: "X2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 1, res.Categories)
	assert.False(t, res.Settings)

	snap := catalog.Snapshot(ctx)
	require.Len(t, snap.Products, 3)
	assert.Equal(t, []int{7, 3, 8}, []int{snap.Products[0].ID, snap.Products[1].ID, snap.Products[2].ID})
	assert.Equal(t, "B2", snap.Products[1].Name)
	assert.Equal(t, "X2", snap.Categories[0].Name)
	assert.Equal(t, models.DemoSnapshot().BannerImage, snap.BannerImage, "settings untouched")
}

func TestImportWithoutProductsKeepsProducts(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	ctx := context.Background()

	_, err := catalog.Import(ctx, requests.Import{Settings: map[string]string{models.KeyContactAddress: "Farm 9"}})
	require.NoError(t, err)

	snap := catalog.Snapshot(ctx)
	assert.Len(t, snap.Products, 12)
	assert.Equal(t, "Farm 9", snap.ContactAddress)
}

func TestExportDocument(t *testing.T) {
	catalog, _, _ := newCatalog(t)

	doc, err := catalog.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.ExportVersion, doc.ExportVersion)
	assert.Equal(t, 12, doc.Summary.TotalProducts)
	assert.Equal(t, 2, doc.Summary.TotalCategories)
	assert.Equal(t, map[string]int{"Fertilizer": 6, "Pesticide": 6}, doc.Summary.ProductsByCategory)

	first := doc.Products[0]
	assert.Equal(t, 7, first.VariantCount)
	assert.Equal(t, 4, first.TotalImages)
	assert.Equal(t, 5, first.TechnicalDetailCount)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	product := generic["products"].([]any)[0].(map[string]any)
	assert.Equal(t, "Seaweed Extract Natural Organic Fertilizer", product["name"])
	assert.EqualValues(t, 7, product["variantCount"])
}

func TestExportFailsWhenStoreIsDown(t *testing.T) {
	catalog, _, mem := newCatalog(t)
	mem.SetFailure(assert.AnError)

	_, err := catalog.Export(context.Background())
	assert.ErrorIs(t, err, table.ErrUnavailable)
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "agromart_complete_backup_2026-03-09.json", services.ExportFilename(at))
}

func TestBackupWritesToDisk(t *testing.T) {
	catalog, _, _ := newCatalog(t)
	disk := storage.NewLocal(t.TempDir(), "")
	ctx := context.Background()

	path, err := catalog.Backup(ctx, disk)
	require.NoError(t, err)
	assert.Contains(t, path, services.BackupDir+"/agromart_complete_backup_")

	data, err := disk.Get(ctx, path)
	require.NoError(t, err)
	var doc services.ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 12, doc.Summary.TotalProducts)
}
