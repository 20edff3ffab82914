package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/middleware"
	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
	"github.com/chowkidaar/nvr-backend-go/pkg/response"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid login payload", err)
		return
	}

	result, err := h.auth.Login(req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Unauthorized(c, "Invalid username or password")
		return
	}
	if err != nil {
		response.InternalError(c, "Login failed", err)
		return
	}

	response.Success(c, result)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserID)

	user, err := h.users.GetByID(userID)
	if err != nil {
		response.InternalError(c, "Failed to load user", err)
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Account no longer exists", nil)
		return
	}

	response.Success(c, user)
}
