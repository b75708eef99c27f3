package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPrice(t *testing.T) {
	t.Run("seed drill at initial rate", func(t *testing.T) {
		// 65 * 15000 = 975000, /100 = 9750, ceil = 9750, *100 = 975000
		got := LocalPrice(decimal.NewFromInt(65), decimal.NewFromInt(15000))
		assert.Equal(t, int64(975000), got)
	})

	t.Run("rounds up to nearest 100", func(t *testing.T) {
		// 12 * 15150 = 181800, /100 = 1818, already whole -> 181800
		assert.Equal(t, int64(181800), LocalPrice(decimal.NewFromInt(12), decimal.NewFromInt(15150)))
		// 12 * 15155 = 181860, /100 = 1818.6, ceil = 1819 -> 181900
		assert.Equal(t, int64(181900), LocalPrice(decimal.NewFromInt(12), decimal.NewFromInt(15155)))
	})

	t.Run("fractional base price", func(t *testing.T) {
		// 0.5 * 15000 = 7500, /100 = 75 -> 7500
		half := decimal.NewFromFloat(0.5)
		assert.Equal(t, int64(7500), LocalPrice(half, decimal.NewFromInt(15000)))
	})

	t.Run("zero base price", func(t *testing.T) {
		assert.Equal(t, int64(0), LocalPrice(decimal.Zero, decimal.NewFromInt(15000)))
	})
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ValidateRate(decimal.NewFromInt(15000)))
	assert.Error(t, ValidateRate(decimal.Zero))
	assert.Error(t, ValidateRate(decimal.NewFromInt(-1)))
}

func TestRepriceAll(t *testing.T) {
	products := SeedProducts()
	rate := decimal.NewFromInt(15000)
	RepriceAll(products, rate)

	for _, p := range products {
		assert.Equal(t, LocalPrice(p.PriceUSD, rate), p.PriceSYP, "product %s", p.ID)
		assert.NotZero(t, p.PriceSYP, "product %s", p.ID)
	}

	t.Run("rate change leaves no stale prices", func(t *testing.T) {
		newRate := decimal.NewFromInt(15200)
		RepriceAll(products, newRate)
		for _, p := range products {
			require.Equal(t, LocalPrice(p.PriceUSD, newRate), p.PriceSYP, "product %s", p.ID)
		}
	})
}
