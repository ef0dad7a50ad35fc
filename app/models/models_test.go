package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
)

func TestDiscountFromMainVariant(t *testing.T) {
	p := models.Product{Variants: []models.Variant{
		{Weight: "1 kg", Price: 90, OriginalPrice: 100},
		{Weight: "5 kg", Price: 300, OriginalPrice: 400, IsMain: true},
	}}
	assert.Equal(t, 25, p.EffectiveDiscount())

	p.Variants[1].IsMain = false
	assert.Equal(t, 10, p.EffectiveDiscount(), "first variant is main when none is flagged")
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 0, models.DiscountPercent(100, 100))
	assert.Equal(t, 0, models.DiscountPercent(100, 120))
	assert.Equal(t, 0, models.DiscountPercent(0, 10))
	assert.Equal(t, 33, models.DiscountPercent(150, 100))
	assert.Equal(t, 17, models.DiscountPercent(1200, 999))
}

func TestVariantOriginalDefaultsToPrice(t *testing.T) {
	v := models.Variant{Weight: "1 L", Price: 250}
	assert.Equal(t, 250.0, v.Original())
	assert.Equal(t, 0, v.Discount())
	assert.True(t, v.Valid())
	assert.False(t, models.Variant{Weight: "1 L"}.Valid())
	assert.False(t, models.Variant{Price: 10}.Valid())
}

func TestUnitPriceAndDisplayName(t *testing.T) {
	p := models.Product{Name: "Urea", OfferPrice: 999, Variants: []models.Variant{{Weight: "50 kg", Price: 1899}}}

	assert.Equal(t, 999.0, p.UnitPrice(nil))
	assert.Equal(t, 1899.0, p.UnitPrice(models.IntPtr(0)))
	assert.Equal(t, 999.0, p.UnitPrice(models.IntPtr(3)), "out-of-range index uses offer price")
	assert.Equal(t, "Urea (50 kg)", p.DisplayName(models.IntPtr(0)))
	assert.Equal(t, "Urea", p.DisplayName(nil))
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := models.DemoSnapshot()
	c := s.Clone()

	c.Products[0].Variants[0].Price = 1
	c.Products[0].TechnicalDetails["Brand"] = "Other"
	c.Categories[0].Name = "Changed"

	assert.Equal(t, 7875.0, s.Products[0].Variants[0].Price)
	assert.Equal(t, "Noble Crop Science", s.Products[0].TechnicalDetails["Brand"])
	assert.Equal(t, "Fertilizer", s.Categories[0].Name)
}

func TestSnapshotLookups(t *testing.T) {
	s := models.DemoSnapshot()

	p, ok := s.ProductByID(7)
	require.True(t, ok)
	assert.Equal(t, "pesticide", p.Category)

	assert.Len(t, s.ProductsByCategory("fertilizer"), 6)
	assert.Len(t, s.ProductsByCategory("all"), 12)
	assert.Len(t, s.Search("neem"), 1)
	assert.Len(t, s.Search("noble crop"), 1, "technical detail values are searched")
	assert.Len(t, s.Search("PESTICIDE"), 6, "category display name is searched")
	assert.Equal(t, map[string]int{"Fertilizer": 6, "Pesticide": 6}, s.CountByCategory())
	assert.Equal(t, 12, s.MaxProductID())
	assert.Equal(t, 0, models.DefaultSnapshot().MaxProductID())
}

func TestSettingsFromValuesFillsDefaults(t *testing.T) {
	s := models.SettingsFromValues(map[string]string{
		models.KeyBannerImage:  "https://cdn.example.com/b.png",
		models.KeyTwitterLink:  "https://twitter.com/agromart",
		"someUnknownKey":       "ignored",
		models.KeyContactEmail: "",
	})

	assert.Equal(t, models.DefaultWhatsAppNumber, s.WhatsAppNumber)
	assert.Equal(t, models.DefaultContactEmail, s.ContactEmail)
	assert.Equal(t, "https://cdn.example.com/b.png", s.BannerImage)
	assert.Equal(t, "https://twitter.com/agromart", s.SocialLinks.Twitter)
	assert.Equal(t, "https://twitter.com/agromart", s.Values()[models.KeyTwitterLink])
}

func TestCategorySlug(t *testing.T) {
	assert.Equal(t, "organic-seeds", models.CategorySlug("Organic Seeds"))
	assert.Equal(t, "fertilizer", models.CategorySlug("  Fertilizer "))
}

func TestCartLineMatches(t *testing.T) {
	line := models.CartLine{ProductID: 5, Quantity: 1}
	assert.True(t, line.Matches(5, nil))
	assert.False(t, line.Matches(5, models.IntPtr(0)))

	line.VariantIndex = models.IntPtr(1)
	assert.True(t, line.Matches(5, models.IntPtr(1)))
	assert.False(t, line.Matches(5, models.IntPtr(0)))
	assert.False(t, line.Matches(6, models.IntPtr(1)))
}
