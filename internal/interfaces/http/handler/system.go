package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamo-store/backend/internal/infrastructure/persistence"
)

// SystemHandler serves liveness endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports server and database status. The storefront polls this to
// drive its online/offline indicator.
func (h *SystemHandler) Health(c *gin.Context) {
	database := "Connected"
	status := "OK"
	if err := h.db.Ping(); err != nil {
		database = "Disconnected"
		status = "DEGRADED"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
