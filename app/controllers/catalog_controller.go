package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
)

// CatalogController handles the admin writes to products, categories and
// settings.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// SaveProduct is POST and PUT /api/products.
func (cc *CatalogController) SaveProduct(c *ctx.Context) {
	var req requests.ProductRequest
	if !c.Decode(&req) {
		return
	}
	p, err := req.Validate()
	if err != nil {
		fail(c, err)
		return
	}
	saved, err := cc.catalog.SaveProduct(c.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"product": saved})
}

// DeleteProduct is DELETE /api/products/{id}.
func (cc *CatalogController) DeleteProduct(c *ctx.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.Error(http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := cc.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(nil)
}

// SaveCategory is POST /api/categories.
func (cc *CatalogController) SaveCategory(c *ctx.Context) {
	var req requests.CategoryRequest
	if !c.Decode(&req) {
		return
	}
	cat, err := req.Validate()
	if err != nil {
		fail(c, err)
		return
	}
	saved, err := cc.catalog.SaveCategory(c.Context(), cat)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"category": saved})
}

// DeleteCategory is DELETE /api/categories/{id}.
func (cc *CatalogController) DeleteCategory(c *ctx.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.Error(http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := cc.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(nil)
}

// SaveSettings is POST /api/settings.
func (cc *CatalogController) SaveSettings(c *ctx.Context) {
	var req requests.SettingsRequest
	if !c.Decode(&req) {
		return
	}
	values, err := req.Validate()
	if err != nil {
		fail(c, err)
		return
	}
	if err := cc.catalog.SaveSettings(c.Context(), values); err != nil {
		fail(c, err)
		return
	}
	c.Success(nil)
}

// SaveContacts is POST /api/contacts.
func (cc *CatalogController) SaveContacts(c *ctx.Context) {
	var req requests.ContactsRequest
	if !c.Decode(&req) {
		return
	}
	values, err := req.Validate()
	if err != nil {
		fail(c, err)
		return
	}
	if err := cc.catalog.SaveSettings(c.Context(), values); err != nil {
		fail(c, err)
		return
	}
	c.Success(nil)
}
