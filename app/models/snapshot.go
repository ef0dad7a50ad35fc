package models

import (
	"sort"
	"strings"
)

// Snapshot is the whole catalog at one point in time: settings, categories
// and products. It is the unit every cache tier stores and the body of GET /api/data.
type Snapshot struct {
	Settings
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// DefaultSnapshot is an empty catalog with default settings.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Settings:   DefaultSettings(),
		Categories: []Category{},
		Products:   []Product{},
	}
}

// Clone deep-copies the snapshot so callers can mutate it freely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Settings: s.Settings}
	out.Categories = append([]Category{}, s.Categories...)
	out.Products = make([]Product, len(s.Products))
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	return out
}

func (s Snapshot) ProductByID(id int) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s Snapshot) CategoryByID(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ProductsByCategory returns products in the category; "" or "all" returns every product.
func (s Snapshot) ProductsByCategory(category string) []Product {
	if category == "" || category == "all" {
		return append([]Product{}, s.Products...)
	}
	out := []Product{}
	for _, p := range s.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s Snapshot) BestSelling() []Product {
	out := []Product{}
	for _, p := range s.Products {
		if p.BestSelling {
			out = append(out, p)
		}
	}
	return out
}

// Search matches the query case-insensitively against name, description,
// category id and display name, and technical detail keys and values.
func (s Snapshot) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Product{}, s.Products...)
	}
	has := func(text string) bool { return strings.Contains(strings.ToLower(text), q) }

	out := []Product{}
	for _, p := range s.Products {
		match := has(p.Name) || has(p.Description) || has(p.Category)
		if !match {
			if c, ok := s.CategoryByID(p.Category); ok {
				match = has(c.Name)
			}
		}
		for k, v := range p.TechnicalDetails {
			if match {
				break
			}
			match = has(k) || has(v)
		}
		if match {
			out = append(out, p)
		}
	}
	return out
}

// CountByCategory maps category display name to its product count.
func (s Snapshot) CountByCategory() map[string]int {
	out := make(map[string]int, len(s.Categories))
	for _, c := range s.Categories {
		n := 0
		for _, p := range s.Products {
			if p.Category == c.ID {
				n++
			}
		}
		out[c.Name] = n
	}
	return out
}

// MaxProductID is the highest id in use, or 0 for an empty catalog.
func (s Snapshot) MaxProductID() int {
	max := 0
	for _, p := range s.Products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// SortedProducts returns products ordered by id.
func (s Snapshot) SortedProducts() []Product {
	out := append([]Product{}, s.Products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
