package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// SettingsHandler handles HTTP requests for the settings store
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.GetAll()
	if err != nil {
		response.InternalError(c, "Failed to load settings", err)
		return
	}

	response.Success(c, settings)
}

// Update handles PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid settings payload", err)
		return
	}

	if err := h.service.Update(req.Settings); err != nil {
		response.InternalError(c, "Failed to update settings", err)
		return
	}

	response.Success(c, req.Settings)
}
