package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// EventHandler handles HTTP requests for events
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(service *service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	events, err := h.service.List(filter)
	if err != nil {
		response.InternalError(c, "Failed to list events", err)
		return
	}

	response.Success(c, gin.H{
		"data":  events,
		"count": len(events),
	})
}

// Stats handles GET /api/v1/events/stats
func (h *EventHandler) Stats(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("windowDays", "7"))

	stats, err := h.service.Stats(windowDays)
	if err != nil {
		response.InternalError(c, "Failed to aggregate event stats", err)
		return
	}

	response.Success(c, stats)
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid event id", err)
		return
	}

	event, err := h.service.GetByID(id)
	if err != nil {
		response.InternalError(c, "Failed to load event", err)
		return
	}
	if event == nil {
		response.NotFound(c, "Event not found")
		return
	}

	response.Success(c, event)
}

// Ingest handles POST /api/v1/events — the detection pipeline pushes
// an event plus its detection points here.
func (h *EventHandler) Ingest(c *gin.Context) {
	var req service.IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid event payload", err)
		return
	}

	event, err := h.service.Ingest(req)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to ingest event", err)
		return
	}

	response.Success(c, event)
}

// Update handles PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid event id", err)
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid event payload", err)
		return
	}

	event, err := h.service.Update(id, req)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to update event", err)
		return
	}
	if event == nil {
		response.NotFound(c, "Event not found")
		return
	}

	response.Success(c, event)
}

// Delete handles DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid event id", err)
		return
	}

	err = h.service.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		response.NotFound(c, "Event not found")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to delete event", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// AcknowledgeAll handles POST /api/v1/events/acknowledge-all
func (h *EventHandler) AcknowledgeAll(c *gin.Context) {
	cameraID, _ := strconv.ParseInt(c.DefaultQuery("cameraId", "0"), 10, 64)

	count, err := h.service.AcknowledgeAll(cameraID)
	if err != nil {
		response.InternalError(c, "Failed to acknowledge events", err)
		return
	}

	response.Success(c, gin.H{"acknowledged": count})
}
