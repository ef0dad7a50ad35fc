package models

// CartLine is one entry of the storefront cart. VariantIndex nil means the
// product's base offer price.
type CartLine struct {
	ProductID    int  `json:"productId"`
	Quantity     int  `json:"quantity"`
	VariantIndex *int `json:"variantIndex"`
}

// Matches reports whether the line is for the given product and variant.
func (l CartLine) Matches(productID int, variantIndex *int) bool {
	if l.ProductID != productID {
		return false
	}
	if l.VariantIndex == nil || variantIndex == nil {
		return l.VariantIndex == nil && variantIndex == nil
	}
	return *l.VariantIndex == *variantIndex
}

// IntPtr is a helper for optional variant indexes.
func IntPtr(i int) *int { return &i }
