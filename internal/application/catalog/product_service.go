package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
)

// ProductService handles product catalog use cases
type ProductService struct {
	repo   catalog.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// CreateProductRequest carries the fields accepted when creating a product
type CreateProductRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	PriceUSD    decimal.Decimal `json:"priceUSD"`
	PriceSYP    int64           `json:"priceSYP"`
	Brand       string          `json:"brand"`
	Rating      float64         `json:"rating"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	PriceUSD    *decimal.Decimal `json:"priceUSD"`
	PriceSYP    *int64           `json:"priceSYP"`
	Brand       *string          `json:"brand"`
	Rating      *float64         `json:"rating"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
}

// List returns all products, newest first
func (s *ProductService) List(ctx context.Context) ([]*catalog.Product, error) {
	return s.repo.FindAll(ctx)
}

// Get returns a single product by id
func (s *ProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new product. When the request carries an id the caller's
// id wins, which lets offline clients sync products they created locally.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.ID, req.Name, catalog.Category(req.Category), req.PriceUSD)
	if err != nil {
		return nil, err
	}
	product.PriceSYP = req.PriceSYP
	product.Brand = req.Brand
	product.Rating = req.Rating
	product.Stock = req.Stock
	product.Image = req.Image
	product.Description = req.Description

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		s.logger.Error("failed to save product", zap.String("id", product.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// Update applies a partial update to an existing product
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = catalog.Category(*req.Category)
	}
	if req.PriceUSD != nil {
		product.PriceUSD = *req.PriceUSD
	}
	if req.PriceSYP != nil {
		product.PriceSYP = *req.PriceSYP
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("id", product.ID))
	return product, nil
}

// Upsert creates the product when it does not exist yet, otherwise updates it.
// Sync replays from offline clients are not ordered, so both paths must land
// on the same final row.
func (s *ProductService) Upsert(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	if req.ID == "" {
		return s.Create(ctx, req)
	}
	if _, err := s.repo.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.Create(ctx, req)
		}
		return nil, err
	}
	return s.Update(ctx, req.ID, UpdateProductRequest{
		Name:        &req.Name,
		Category:    &req.Category,
		PriceUSD:    &req.PriceUSD,
		PriceSYP:    &req.PriceSYP,
		Brand:       &req.Brand,
		Rating:      &req.Rating,
		Stock:       &req.Stock,
		Image:       &req.Image,
		Description: &req.Description,
	})
}

// Delete removes a product. Deleting an absent product is not an error.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// EnsureSeeded populates the catalog with the starter products when empty
func (s *ProductService) EnsureSeeded(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := catalog.SeedProducts()
	for i := range seed {
		if err := s.repo.Save(ctx, &seed[i]); err != nil {
			return err
		}
	}
	s.logger.Info("catalog seeded", zap.Int("products", len(seed)))
	return nil
}
