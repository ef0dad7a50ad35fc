package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/storage"
)

const (
	ExportVersion = "1.0"
	// BackupDir is where Backup writes on the storage disk.
	BackupDir = "backups"
)

// ExportDocument is the complete catalog backup served by GET /api/export.
// Its settings, categories and products can be posted back to /api/import.
type ExportDocument struct {
	ExportDate    string            `json:"exportDate"`
	ExportVersion string            `json:"exportVersion"`
	Summary       ExportSummary     `json:"summary"`
	Settings      models.Settings   `json:"settings"`
	Categories    []models.Category `json:"categories"`
	Products      []ExportProduct   `json:"products"`
}

type ExportSummary struct {
	TotalProducts      int            `json:"totalProducts"`
	TotalCategories    int            `json:"totalCategories"`
	ProductsByCategory map[string]int `json:"productsByCategory"`
}

// ExportProduct adds counters to a product. TotalImages includes the main image.
type ExportProduct struct {
	models.Product
	VariantCount         int `json:"variantCount"`
	TotalImages          int `json:"totalImages"`
	TechnicalDetailCount int `json:"technicalDetailCount"`
}

// Export builds the backup document from a direct store read, so an outage
// fails the export instead of exporting defaults.
func (s *CatalogService) Export(ctx context.Context) (ExportDocument, error) {
	snap, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return ExportDocument{}, err
	}

	products := make([]ExportProduct, 0, len(snap.Products))
	for _, p := range snap.Products {
		products = append(products, ExportProduct{
			Product:              p,
			VariantCount:         len(p.Variants),
			TotalImages:          len(p.Images) + 1,
			TechnicalDetailCount: len(p.TechnicalDetails),
		})
	}

	return ExportDocument{
		ExportDate:    s.now().UTC().Format(time.RFC3339),
		ExportVersion: ExportVersion,
		Summary: ExportSummary{
			TotalProducts:      len(snap.Products),
			TotalCategories:    len(snap.Categories),
			ProductsByCategory: snap.CountByCategory(),
		},
		Settings:   snap.Settings,
		Categories: snap.Categories,
		Products:   products,
	}, nil
}

// ExportFilename is the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("agromart_complete_backup_%s.json", t.UTC().Format("2006-01-02"))
}

// Backup writes the export document to disk and returns its path.
func (s *CatalogService) Backup(ctx context.Context, disk storage.Disk) (string, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}

	now := s.now().UTC()
	path := fmt.Sprintf("%s/agromart_complete_backup_%s.json", BackupDir, now.Format("20060102T150405Z"))
	if err := disk.Put(ctx, path, data); err != nil {
		return "", fmt.Errorf("backup: write %s: %w", path, err)
	}
	logger.WithCtx(ctx).Info("catalog backup written",
		"path", path, "products", doc.Summary.TotalProducts, "bytes", len(data))
	return path, nil
}
