package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	users, err := h.service.List(filter)
	if err != nil {
		response.InternalError(c, "Failed to list users", err)
		return
	}

	response.Success(c, gin.H{
		"data":  users,
		"count": len(users),
	})
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid user id", err)
		return
	}

	user, err := h.service.GetByID(id)
	if err != nil {
		response.InternalError(c, "Failed to load user", err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	response.Success(c, user)
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid user payload", err)
		return
	}

	user, err := h.service.Create(req)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Failed to create user", err)
		return
	}

	response.Success(c, user)
}

// Update handles PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid user id", err)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid user payload", err)
		return
	}

	user, err := h.service.Update(id, req)
	if errors.Is(err, service.ErrLastAdmin) {
		response.Error(c, http.StatusConflict, "Cannot remove the last active admin", nil)
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to update user", err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	response.Success(c, user)
}

// Delete handles DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid user id", err)
		return
	}

	err = h.service.Delete(id)
	if errors.Is(err, service.ErrLastAdmin) {
		response.Error(c, http.StatusConflict, "Cannot remove the last active admin", nil)
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to delete user", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}
