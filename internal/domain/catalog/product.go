package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category represents a store department.
// Values match the wire format used by existing clients (Arabic labels).
type Category string

const (
	CategoryElectricity  Category = "كهرباء"
	CategoryConstruction Category = "بناء"
	CategoryWater        Category = "مياه"
	CategoryPaint        Category = "دهانات"
)

// Categories lists all valid categories
var Categories = []Category{
	CategoryElectricity,
	CategoryConstruction,
	CategoryWater,
	CategoryPaint,
}

// IsValid reports whether the category is one of the known departments
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Product represents a retail item in the catalog.
// PriceSYP is derived from PriceUSD and the current exchange rate; it is a
// display cache, never authoritative (see LocalPrice).
type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Category    Category        `gorm:"type:varchar(30);not null;index" json:"category"`
	PriceSYP    int64           `gorm:"not null;default:0" json:"priceSYP"`
	PriceUSD    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"priceUSD"`
	Brand       string          `gorm:"type:varchar(100)" json:"brand"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       string          `gorm:"type:text" json:"image"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. An empty id is assigned a generated one.
func NewProduct(id, name string, category Category, priceUSD decimal.Decimal) (*Product, error) {
	if id == "" {
		id = uuid.NewString()
	}
	product := &Product{
		ID:       id,
		Name:     name,
		Category: category,
		PriceUSD: priceUSD,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

// Validate checks the product's field invariants
func (p *Product) Validate() error {
	if p.ID == "" {
		return shared.NewDomainError("INVALID_ID", "Product id cannot be empty")
	}
	if p.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(p.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if !p.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if p.PriceUSD.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	if p.Stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return nil
}

// Reprice recomputes the derived local price from the given exchange rate
func (p *Product) Reprice(rate decimal.Decimal) {
	p.PriceSYP = LocalPrice(p.PriceUSD, rate)
}
