package services

import (
	"context"

	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/store"
	"fxdesk/internal/swappoints"
)

// PairReader looks up currency pairs.
type PairReader interface {
	ListCurrencyPairs(ctx context.Context, activeOnly bool) ([]store.CurrencyPair, error)
	GetCurrencyPair(ctx context.Context, idOrSymbol string) (store.CurrencyPair, error)
}

// MarketRateRepository stores and reads market base rates.
type MarketRateRepository interface {
	InsertMarketRate(ctx context.Context, r quote.BaseRate) (quote.BaseRate, error)
	LatestMarketRate(ctx context.Context, currencyPairID, source string) (*quote.BaseRate, error)
}

// SpreadRepository stores and reads spread settings.
type SpreadRepository interface {
	ListSpreadSettings(ctx context.Context, f store.SpreadFilter) ([]quote.SpreadSetting, error)
	ActiveSpreadSettings(ctx context.Context, product quote.ProductType, currencyPairID string) ([]quote.SpreadSetting, error)
	CreateSpreadSetting(ctx context.Context, st quote.SpreadSetting) (quote.SpreadSetting, error)
}

// SwapPointRepository stores and reads uploaded swap points.
type SwapPointRepository interface {
	ListSwapPoints(ctx context.Context, currencyPairID string) ([]swappoints.Record, error)
	InsertSwapPoints(ctx context.Context, records []swappoints.Record) ([]swappoints.Record, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// outcomeOf labels a metric outcome: empty on success, the error type
// otherwise.
func outcomeOf(err error) string {
	if err == nil {
		return ""
	}
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "error"
}
