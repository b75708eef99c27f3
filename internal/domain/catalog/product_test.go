package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("e9", "مفك اختبار", CategoryElectricity, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "e9", product.ID)
		assert.Equal(t, "مفك اختبار", product.Name)
		assert.Equal(t, CategoryElectricity, product.Category)
		assert.True(t, product.PriceUSD.Equal(decimal.NewFromInt(10)))
		assert.Zero(t, product.PriceSYP)
	})

	t.Run("assigns id when absent", func(t *testing.T) {
		product, err := NewProduct("", "منتج جديد", CategoryPaint, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.NotEmpty(t, product.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("x1", "", CategoryPaint, decimal.NewFromInt(5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with unknown category", func(t *testing.T) {
		_, err := NewProduct("x1", "منتج", Category("toys"), decimal.NewFromInt(5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("x1", "منتج", CategoryWater, decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestProductValidate(t *testing.T) {
	base := func() *Product {
		return &Product{
			ID:       "p9",
			Name:     "دهان",
			Category: CategoryPaint,
			PriceUSD: decimal.NewFromInt(20),
			Rating:   4.5,
			Stock:    3,
		}
	}

	t.Run("valid product passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("rejects rating out of range", func(t *testing.T) {
		p := base()
		p.Rating = 5.1
		assert.Error(t, p.Validate())
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		p := base()
		p.Stock = -1
		assert.Error(t, p.Validate())
	})
}

func TestProductReprice(t *testing.T) {
	p := &Product{ID: "e1", Name: "مثقاب", Category: CategoryElectricity, PriceUSD: decimal.NewFromInt(65)}

	p.Reprice(decimal.NewFromInt(15000))
	assert.Equal(t, int64(975000), p.PriceSYP)

	p.Reprice(decimal.NewFromInt(15200))
	assert.Equal(t, LocalPrice(p.PriceUSD, decimal.NewFromInt(15200)), p.PriceSYP)
}

func TestSeedProducts(t *testing.T) {
	products := SeedProducts()
	require.Len(t, products, 9)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NoError(t, p.Validate(), "product %s", p.ID)
	}
}
