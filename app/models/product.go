package models

import (
	"math"
	"strings"
)

// Product is one catalog entry as stored in the Products tab.
type Product struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Image            string            `json:"image"`
	Category         string            `json:"category"`
	OriginalPrice    int               `json:"originalPrice"`
	OfferPrice       int               `json:"offerPrice"`
	Discount         int               `json:"discount"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"reviewCount"`
	BestSelling      bool              `json:"bestSelling"`
	Description      string            `json:"description"`
	Images           []string          `json:"images"`
	Variants         []Variant         `json:"variants"`
	TechnicalDetails map[string]string `json:"technicalDetails"`
	BulkOrderNumber  string            `json:"bulkOrderNumber"`
	CreatedAt        string            `json:"createdAt,omitempty"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`
}

// Variant is a purchasable size/weight option of a product.
type Variant struct {
	Weight        string  `json:"weight"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	IsMain        bool    `json:"isMain,omitempty"`
}

// Valid reports whether the variant can be sold: a label and a positive price.
func (v Variant) Valid() bool {
	return strings.TrimSpace(v.Weight) != "" && v.Price > 0
}

// Original returns OriginalPrice, or Price when no original price was given.
func (v Variant) Original() float64 {
	if v.OriginalPrice <= 0 {
		return v.Price
	}
	return v.OriginalPrice
}

// Discount is the rounded percentage saved against the original price.
func (v Variant) Discount() int {
	return DiscountPercent(v.Original(), v.Price)
}

// DiscountPercent returns round((original-price)/original*100) when original > price, else 0.
func DiscountPercent(original, price float64) int {
	if original <= 0 || original <= price {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}

// MainVariant returns the variant flagged IsMain, else the first one.
// ok is false when there are no variants.
func MainVariant(variants []Variant) (v Variant, index int, ok bool) {
	if len(variants) == 0 {
		return Variant{}, -1, false
	}
	for i, candidate := range variants {
		if candidate.IsMain {
			return candidate, i, true
		}
	}
	return variants[0], 0, true
}

// MainVariant is the product's display variant.
func (p Product) MainVariant() (Variant, bool) {
	v, _, ok := MainVariant(p.Variants)
	return v, ok
}

// EffectiveDiscount derives the discount from the main variant when there is one,
// otherwise from the flat price fields.
func (p Product) EffectiveDiscount() int {
	if main, ok := p.MainVariant(); ok {
		return main.Discount()
	}
	return DiscountPercent(float64(p.OriginalPrice), float64(p.OfferPrice))
}

// UnitPrice is the price of one item of the given variant, falling back to the
// product offer price when the index is nil or out of range.
func (p Product) UnitPrice(variantIndex *int) float64 {
	if v, ok := p.Variant(variantIndex); ok {
		return v.Price
	}
	return float64(p.OfferPrice)
}

// Variant looks up a variant by optional index.
func (p Product) Variant(index *int) (Variant, bool) {
	if index == nil || *index < 0 || *index >= len(p.Variants) {
		return Variant{}, false
	}
	return p.Variants[*index], true
}

// DisplayName appends the variant weight, e.g. "Urea (50 kg)".
func (p Product) DisplayName(variantIndex *int) string {
	if v, ok := p.Variant(variantIndex); ok && v.Weight != "" {
		return p.Name + " (" + v.Weight + ")"
	}
	return p.Name
}

// Clone returns a deep copy.
func (p Product) Clone() Product {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Variants != nil {
		out.Variants = append([]Variant(nil), p.Variants...)
	}
	if p.TechnicalDetails != nil {
		out.TechnicalDetails = make(map[string]string, len(p.TechnicalDetails))
		for k, v := range p.TechnicalDetails {
			out.TechnicalDetails[k] = v
		}
	}
	return out
}
