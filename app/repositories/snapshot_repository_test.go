package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

func newRepo(t *testing.T) (*SnapshotRepository, *table.Memory) {
	t.Helper()
	mem := table.NewMemory("test store")
	repo := NewSnapshotRepository(mem)
	repo.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return repo, mem
}

func TestReadSnapshotEmptyStoreUsesDefaults(t *testing.T) {
	repo, _ := newRepo(t)

	snap, err := repo.ReadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Categories)
	assert.Equal(t, models.DefaultSettings(), snap.Settings)
}

func TestReadSnapshotParsesLenientRows(t *testing.T) {
	repo, mem := newRepo(t)
	ctx := context.Background()

	require.NoError(t, mem.Replace(ctx, ProductsTab, [][]string{
		productHeader,
		{"7", "Urea", "/img/urea.jpg", "fertilizer", "abc", "250.9", "", "", "3", "true", "desc", "not json", `[{"weight":"50 kg","price":250}]`, `{"N":"46%","grade":2}`, "", "", ""},
		{"", "skipped"},
	}))
	require.NoError(t, mem.Replace(ctx, CategoriesTab, [][]string{
		categoryHeader,
		{"seeds"},
		{"fertilizer", "Fertilizer", "fas fa-flask"},
	}))
	require.NoError(t, mem.Replace(ctx, SettingsTab, [][]string{
		settingsHeader,
		{"contactEmail", "shop@example.com"},
		{"facebookLink", "https://facebook.com/agro"},
	}))

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Products, 1)
	p := snap.Products[0]
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, 0, p.OriginalPrice)
	assert.Equal(t, 250, p.OfferPrice)
	assert.Equal(t, 4.0, p.Rating)
	assert.True(t, p.BestSelling)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, []models.Variant{{Weight: "50 kg", Price: 250}}, p.Variants)
	assert.Equal(t, map[string]string{"N": "46%", "grade": "2"}, p.TechnicalDetails)

	assert.Equal(t, []models.Category{
		{ID: "seeds", Name: "seeds", Icon: models.DefaultCategoryIcon},
		{ID: "fertilizer", Name: "Fertilizer", Icon: "fas fa-flask"},
	}, snap.Categories)

	assert.Equal(t, "shop@example.com", snap.ContactEmail)
	assert.Equal(t, models.DefaultWhatsAppNumber, snap.WhatsAppNumber)
	assert.Equal(t, "https://facebook.com/agro", snap.SocialLinks.Facebook)
}

func TestReadSnapshotFailsWhenStoreUnavailable(t *testing.T) {
	repo, mem := newRepo(t)
	mem.SetFailure(errors.New("timeout"))

	_, err := repo.ReadSnapshot(context.Background())
	assert.ErrorIs(t, err, table.ErrUnavailable)
}

func TestWriteProductsStampsTimes(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: 1, Name: "Kept", CreatedAt: "2025-05-05T00:00:00Z", Rating: 4.5},
		{ID: 2, Name: "Fresh"},
	}
	require.NoError(t, repo.WriteProducts(ctx, products))

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Products, 2)

	assert.Equal(t, "2025-05-05T00:00:00Z", snap.Products[0].CreatedAt)
	assert.Equal(t, "2026-01-02T03:04:05Z", snap.Products[0].UpdatedAt)
	assert.Equal(t, 4.5, snap.Products[0].Rating)
	assert.Equal(t, "2026-01-02T03:04:05Z", snap.Products[1].CreatedAt)
	assert.Equal(t, 4.0, snap.Products[1].Rating)
}

func TestWriteSettingsOrdersKeys(t *testing.T) {
	repo, mem := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.WriteSettings(ctx, map[string]string{
		"zeta":                   "1",
		models.KeyContactEmail:   "a@b.co",
		models.KeyWhatsAppNumber: "911234567890",
	}))

	rows, err := mem.Read(ctx, SettingsTab)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"key", "value"},
		{"whatsappNumber", "911234567890"},
		{"contactEmail", "a@b.co"},
		{"zeta", "1"},
	}, rows)

	values, err := repo.ReadSettingValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", values["zeta"])
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	repo, mem := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.WriteCategories(ctx, []models.Category{{ID: "seeds", Name: "Seeds"}}))
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	tabs, err := mem.Tabs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ProductsTab, CategoriesTab, SettingsTab}, tabs)

	rows, err := mem.Read(ctx, CategoriesTab)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = mem.Read(ctx, ProductsTab)
	require.NoError(t, err)
	assert.Equal(t, [][]string{productHeader}, rows)
}

func TestParseInt(t *testing.T) {
	cases := map[string]int{"12": 12, "12.9": 12, " 7kg": 7, "": 0, "abc": 0, "-3": -3}
	for in, want := range cases {
		assert.Equal(t, want, parseInt(in), in)
	}
}
