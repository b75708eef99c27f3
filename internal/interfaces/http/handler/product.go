package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appcatalog "github.com/mamo-store/backend/internal/application/catalog"
	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/interfaces/http/middleware"
)

// ProductHandler serves the product catalog API. The endpoints the offline
// storefront syncs against keep their exact wire shapes: a bare JSON array
// for listing, `{success, id}` for updates and `{success: true}` for deletes.
type ProductHandler struct {
	BaseHandler
	service *appcatalog.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *appcatalog.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.POST("/products", h.Create)
	rg.PUT("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
}

// List returns the full catalog as a bare array
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		h.Internal(c, "Failed to load products")
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// Create stores a new product and returns it
func (h *ProductHandler) Create(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid product payload")
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update applies a partial update and answers `{success, id}`
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid product payload")
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Product not found")
			return
		}
		h.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// Delete removes a product and answers `{success: true}` whether or not the
// product existed, deletions replayed by offline clients must be idempotent
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete product", zap.String("id", id), zap.Error(err))
		h.Internal(c, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
