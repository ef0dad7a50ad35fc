package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/storage"
)

// DataController serves the public snapshot and the bulk admin operations.
type DataController struct {
	catalog *services.CatalogService
	backups storage.Disk
}

func NewDataController(catalog *services.CatalogService, backups storage.Disk) *DataController {
	return &DataController{catalog: catalog, backups: backups}
}

// Show is GET /api/data. It always answers 200.
func (d *DataController) Show(c *ctx.Context) {
	c.JSON(http.StatusOK, d.catalog.Snapshot(c.Context()))
}

// Export is GET /api/export, served as a download.
func (d *DataController) Export(c *ctx.Context) {
	doc, err := d.catalog.Export(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Attachment(services.ExportFilename(time.Now()))
	c.JSON(http.StatusOK, doc)
}

// Import is POST /api/import.
func (d *DataController) Import(c *ctx.Context) {
	var req requests.ImportRequest
	if !c.Decode(&req) {
		return
	}
	in, err := req.Validate(config.ImportMaxProducts())
	if err != nil {
		fail(c, err)
		return
	}
	res, err := d.catalog.Import(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"imported": res})
}

// Seed is POST /api/seed. Without a data object the demo catalog is written.
func (d *DataController) Seed(c *ctx.Context) {
	var req requests.ImportRequest
	if !c.Decode(&req) {
		return
	}

	var (
		res services.ImportResult
		err error
	)
	if req.Empty() {
		res, err = d.catalog.Seed(c.Context())
	} else {
		var in requests.Import
		if in, err = req.Validate(config.ImportMaxProducts()); err == nil {
			res, err = d.catalog.Import(c.Context(), in)
		}
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"message": "Data seeded", "imported": res})
}

// Backup is POST /api/backup.
func (d *DataController) Backup(c *ctx.Context) {
	path, err := d.catalog.Backup(c.Context(), d.backups)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"path": path, "url": d.backups.URL(path)})
}
