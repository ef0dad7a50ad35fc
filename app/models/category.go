package models

import "github.com/gosimple/slug"

// DefaultCategoryIcon is used when a category row has no icon.
const DefaultCategoryIcon = "fas fa-tag"

// Category groups products. ID is a slug of the name.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategorySlug derives a category id from its display name:
// lowercase with whitespace collapsed to hyphens.
func CategorySlug(name string) string {
	return slug.Make(name)
}
