// Package quote turns market base rates into customer buy/sell quotes by
// resolving and applying configured spreads.
package quote

import (
	"math"

	apperrors "fxdesk/internal/errors"
)

// Compose applies spread to base: buy = base buy + spread, sell = base sell - spread.
// The result is not checked for buy >= sell.
func Compose(base BaseRate, spread Spread) (CustomerRate, error) {
	if !finite(base.BuyRate) || !finite(base.SellRate) {
		return CustomerRate{}, apperrors.NewAppValidationError("base rate must be a finite number").
			WithContext("currency_pair_id", base.CurrencyPairID)
	}
	if !finite(spread.Buy) || !finite(spread.Sell) {
		return CustomerRate{}, apperrors.NewAppValidationError("spread must be a finite number")
	}

	b := base
	return CustomerRate{
		BuyRate:   base.BuyRate + spread.Buy,
		SellRate:  base.SellRate - spread.Sell,
		Spread:    spread.Bps,
		BaseRate:  &b,
		Available: true,
	}, nil
}

// ComposeMAR quotes the market average rate. Without a base rate it returns
// an unavailable CustomerRate and a MissingBaseRate error; no rate is made up.
func ComposeMAR(base *BaseRate, spread Spread) (CustomerRate, error) {
	if base == nil {
		return CustomerRate{Spread: spread.Bps, Available: false},
			apperrors.NewMissingBaseRateError("no market average rate available yet")
	}
	return Compose(*base, spread)
}

// Unavailable is the zero quote used for pairs without a base rate in bulk
// listings.
func Unavailable() CustomerRate {
	return CustomerRate{}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
