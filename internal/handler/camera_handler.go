package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/middleware"
	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// CameraHandler handles HTTP requests for camera configuration
type CameraHandler struct {
	cameras *service.CameraService
	heatmap *service.HeatmapService
}

// NewCameraHandler creates a new camera handler
func NewCameraHandler(cameras *service.CameraService, heatmap *service.HeatmapService) *CameraHandler {
	return &CameraHandler{cameras: cameras, heatmap: heatmap}
}

// List handles GET /api/v1/cameras
func (h *CameraHandler) List(c *gin.Context) {
	cameras, err := h.cameras.List()
	if err != nil {
		response.InternalError(c, "Failed to list cameras", err)
		return
	}

	response.Success(c, gin.H{
		"data":  cameras,
		"count": len(cameras),
	})
}

// Get handles GET /api/v1/cameras/:id
func (h *CameraHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	camera, err := h.cameras.GetByID(id)
	if err != nil {
		response.InternalError(c, "Failed to load camera", err)
		return
	}
	if camera == nil {
		response.NotFound(c, "Camera not found")
		return
	}

	response.Success(c, camera)
}

// Create handles POST /api/v1/cameras
func (h *CameraHandler) Create(c *gin.Context) {
	var req models.CreateCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid camera payload", err)
		return
	}

	ownerID := c.GetInt64(middleware.ContextUserID)
	camera, err := h.cameras.Create(ownerID, req)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to create camera", err)
		return
	}

	response.Success(c, camera)
}

// Update handles PUT /api/v1/cameras/:id
func (h *CameraHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	var req models.UpdateCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid camera payload", err)
		return
	}

	camera, err := h.cameras.Update(id, req)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to update camera", err)
		return
	}
	if camera == nil {
		response.NotFound(c, "Camera not found")
		return
	}

	response.Success(c, camera)
}

// Delete handles DELETE /api/v1/cameras/:id. The camera's heat tile is
// torn down with it so no orphaned poller keeps fetching for a camera
// that no longer exists.
func (h *CameraHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid camera id", err)
		return
	}

	err = h.cameras.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		response.NotFound(c, "Camera not found")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to delete camera", err)
		return
	}

	h.heatmap.RemoveTile(id)
	response.Success(c, gin.H{"deleted": id})
}
