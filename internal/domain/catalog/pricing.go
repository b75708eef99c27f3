package catalog

import (
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InitialExchangeRate is the rate used until an admin sets one (SYP per USD)
var InitialExchangeRate = decimal.NewFromInt(15000)

var hundred = decimal.NewFromInt(100)

// LocalPrice converts a USD base price into the local display price:
// ceil(priceUSD * rate / 100) * 100, i.e. rounded up to the nearest 100 SYP.
func LocalPrice(priceUSD, rate decimal.Decimal) int64 {
	return priceUSD.Mul(rate).Div(hundred).Ceil().Mul(hundred).IntPart()
}

// ValidateRate checks that an exchange rate is usable for pricing
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	return nil
}

// RepriceAll recomputes the derived local price for every product in place
func RepriceAll(products []Product, rate decimal.Decimal) {
	for i := range products {
		products[i].Reprice(rate)
	}
}
