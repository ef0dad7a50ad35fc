package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
)

type SheetsConfigController struct {
	service *services.SheetsConfigService
}

func NewSheetsConfigController(service *services.SheetsConfigService) *SheetsConfigController {
	return &SheetsConfigController{service: service}
}

// Show is GET /api/sheets-config. The private key is never returned.
func (s *SheetsConfigController) Show(c *ctx.Context) {
	cfg := s.service.Config()
	c.JSON(http.StatusOK, map[string]any{
		"sheetId":             cfg.SheetID,
		"serviceAccountEmail": cfg.ServiceAccountEmail,
		"isConnected":         cfg.IsConnected,
		"connectionStatus":    s.service.Status(c.Context()),
	})
}

// Update is POST /api/sheets-config.
func (s *SheetsConfigController) Update(c *ctx.Context) {
	var req requests.SheetsConfigRequest
	if !c.Decode(&req) {
		return
	}
	creds, err := req.Credentials(false)
	if err != nil {
		fail(c, err)
		return
	}
	st := s.service.Update(c.Context(), creds)
	if !st.Success {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": st.Error})
		return
	}
	c.Success(map[string]any{"message": fmt.Sprintf("Connected to %q", st.Title)})
}

// Test is POST /api/sheets-config/test.
func (s *SheetsConfigController) Test(c *ctx.Context) {
	var req requests.SheetsConfigRequest
	if !c.Decode(&req) {
		return
	}
	creds, err := req.Credentials(true)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.service.Test(c.Context(), creds))
}
