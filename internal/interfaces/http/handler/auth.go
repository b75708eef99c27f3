package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/mamo-store/backend/internal/application/identity"
)

// AuthHandler serves phone-keyed login
type AuthHandler struct {
	BaseHandler
	service *appidentity.LoginService
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *appidentity.LoginService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/login/admin", h.ElevateAdmin)
}

type loginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone" binding:"required"`
}

// Login finds or creates the user and answers `{user, token}`
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name and phone are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": result.User, "token": result.Token})
}

type elevateRequest struct {
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

// ElevateAdmin checks the store PIN and issues an admin session token
func (h *AuthHandler) ElevateAdmin(c *gin.Context) {
	var req elevateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Phone and pin are required")
		return
	}

	result, err := h.service.ElevateAdmin(c.Request.Context(), req.Phone, req.PIN)
	if err != nil {
		h.logger.Warn("admin elevation rejected", zap.String("phone", req.Phone))
		h.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": result.User, "token": result.Token})
}
