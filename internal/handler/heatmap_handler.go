package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// HeatmapHandler handles HTTP requests for the detection-density
// overlay
type HeatmapHandler struct {
	service *service.HeatmapService
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(service *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: service}
}

// Overlay handles GET /api/v1/cameras/:id/heatmap. The response is a
// transparent PNG sized to the requested viewport, ready to be stacked
// above the live camera image and below any click-handling layer.
func (h *HeatmapHandler) Overlay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	overlay, err := h.service.OverlayPNG(c.Request.Context(), id, filter)
	if err != nil {
		response.InternalError(c, "Failed to render overlay", err)
		return
	}
	if overlay == nil {
		response.NotFound(c, "Camera not found")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", overlay)
}

// Stats handles GET /api/v1/cameras/:id/heatmap/stats
func (h *HeatmapHandler) Stats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, "Failed to load heatmap stats", err)
		return
	}
	if stats == nil {
		response.NotFound(c, "Camera not found")
		return
	}

	response.Success(c, stats)
}

// SetClasses handles PUT /api/v1/cameras/:id/heatmap/classes. An empty
// class list clears the filter (all classes shown).
func (h *HeatmapHandler) SetClasses(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	var req struct {
		Classes []string `json:"classes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid class payload", err)
		return
	}

	if err := h.service.SetClasses(id, req.Classes); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to set classes", err)
		return
	}

	response.Success(c, gin.H{"classes": req.Classes})
}

// Classes handles GET /api/v1/cameras/:id/heatmap/classes
func (h *HeatmapHandler) Classes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	classes, err := h.service.ClassNames(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, "Failed to list classes", err)
		return
	}

	response.Success(c, gin.H{"classes": classes})
}
