package repositories

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/agromart/app/models"
)

// Tab names and header rows of the remote store.
const (
	ProductsTab   = "Products"
	CategoriesTab = "Categories"
	SettingsTab   = "Settings"
)

var (
	productHeader = []string{
		"id", "name", "image", "category", "originalPrice", "offerPrice", "discount",
		"rating", "reviewCount", "bestSelling", "description", "images", "variants",
		"technicalDetails", "bulkOrderNumber", "createdAt", "updatedAt",
	}
	categoryHeader = []string{"id", "name", "icon"}
	settingsHeader = []string{"key", "value"}
)

// Headers maps every tab to its header row.
func Headers() map[string][]string {
	return map[string][]string{
		ProductsTab:   productHeader,
		CategoriesTab: categoryHeader,
		SettingsTab:   settingsHeader,
	}
}

const defaultRating = 4.0

// parseProducts decodes product rows by header name. Rows without an id are
// skipped, bad numbers read as 0 and bad JSON blobs as empty collections.
func parseProducts(rows [][]string) []models.Product {
	if len(rows) < 2 {
		return []models.Product{}
	}
	header := rows[0]
	out := make([]models.Product, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		p := models.Product{
			Images:           []string{},
			Variants:         []models.Variant{},
			TechnicalDetails: map[string]string{},
			Rating:           defaultRating,
		}
		for i, h := range header {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			switch h {
			case "id":
				p.ID = parseInt(val)
			case "name":
				p.Name = val
			case "image":
				p.Image = val
			case "category":
				p.Category = val
			case "originalPrice":
				p.OriginalPrice = parseInt(val)
			case "offerPrice":
				p.OfferPrice = parseInt(val)
			case "discount":
				p.Discount = parseInt(val)
			case "reviewCount":
				p.ReviewCount = parseInt(val)
			case "rating":
				p.Rating = parseRating(val)
			case "bestSelling":
				p.BestSelling = val == "TRUE" || val == "true"
			case "description":
				p.Description = val
			case "images":
				p.Images = decodeList[string](val)
			case "variants":
				p.Variants = decodeList[models.Variant](val)
			case "technicalDetails":
				p.TechnicalDetails = decodeDetails(val)
			case "bulkOrderNumber":
				p.BulkOrderNumber = val
			case "createdAt":
				p.CreatedAt = val
			case "updatedAt":
				p.UpdatedAt = val
			}
		}
		out = append(out, p)
	}
	return out
}

func parseCategories(rows [][]string) []models.Category {
	out := []models.Category{}
	if len(rows) < 2 {
		return out
	}
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		c := models.Category{ID: row[0], Name: row[0], Icon: models.DefaultCategoryIcon}
		if len(row) > 1 && row[1] != "" {
			c.Name = row[1]
		}
		if len(row) > 2 && row[2] != "" {
			c.Icon = row[2]
		}
		out = append(out, c)
	}
	return out
}

func parseSettings(rows [][]string) map[string]string {
	out := map[string]string{}
	if len(rows) < 2 {
		return out
	}
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		val := ""
		if len(row) > 1 {
			val = row[1]
		}
		out[row[0]] = val
	}
	return out
}

func productRows(products []models.Product, now time.Time) [][]string {
	stamp := now.UTC().Format(time.RFC3339Nano)
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, productHeader)

	for _, p := range products {
		created := p.CreatedAt
		if created == "" {
			created = stamp
		}
		rating := p.Rating
		if rating == 0 {
			rating = defaultRating
		}
		bestSelling := "FALSE"
		if p.BestSelling {
			bestSelling = "TRUE"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Image,
			p.Category,
			strconv.Itoa(p.OriginalPrice),
			strconv.Itoa(p.OfferPrice),
			strconv.Itoa(p.Discount),
			strconv.FormatFloat(rating, 'f', -1, 64),
			strconv.Itoa(p.ReviewCount),
			bestSelling,
			p.Description,
			encode(p.Images, "[]"),
			encode(p.Variants, "[]"),
			encode(p.TechnicalDetails, "{}"),
			p.BulkOrderNumber,
			created,
			stamp,
		})
	}
	return rows
}

func categoryRows(categories []models.Category) [][]string {
	rows := make([][]string, 0, len(categories)+1)
	rows = append(rows, categoryHeader)
	for _, c := range categories {
		icon := c.Icon
		if icon == "" {
			icon = models.DefaultCategoryIcon
		}
		rows = append(rows, []string{c.ID, c.Name, icon})
	}
	return rows
}

// settingsRows writes known keys first, in their canonical order, then any
// other keys sorted.
func settingsRows(values map[string]string) [][]string {
	rows := make([][]string, 0, len(values)+1)
	rows = append(rows, settingsHeader)

	known := make(map[string]bool, len(models.SettingKeys))
	for _, k := range models.SettingKeys {
		known[k] = true
		if v, ok := values[k]; ok {
			rows = append(rows, []string{k, v})
		}
	}

	var extra []string
	for k := range values {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		rows = append(rows, []string{k, values[k]})
	}
	return rows
}

// parseInt keeps the leading integer of s: "12", "12.9" and "12kg" read as 12.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func parseRating(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f == 0 {
		return defaultRating
	}
	return f
}

func decodeList[T any](s string) []T {
	out := []T{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func decodeDetails(s string) map[string]string {
	out := map[string]string{}
	if s == "" {
		return out
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return out
	}
	for k, v := range raw {
		if str, ok := v.(string); ok {
			out[k] = str
			continue
		}
		b, _ := json.Marshal(v)
		out[k] = string(b)
	}
	return out
}

func encode(v any, empty string) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return empty
	}
	return string(b)
}
