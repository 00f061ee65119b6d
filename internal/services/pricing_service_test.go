package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/curve"
	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/swappoints"
)

func seedCurve(t *testing.T, f *fixture) {
	t.Helper()
	t0 := fixedNow.Add(-time.Hour)
	_, err := f.store.InsertSwapPoints(context.Background(), []swappoints.Record{
		{CurrencyPairID: f.pair.ID, Tenor: "ON", SwapPoint: decimal.RequireFromString("0.3"), Source: swappoints.SourceManual, UpdatedAt: t0},
		{CurrencyPairID: f.pair.ID, Tenor: "1M", SwapPoint: decimal.RequireFromString("4.75"), Source: swappoints.SourceManual, UpdatedAt: t0},
		{CurrencyPairID: f.pair.ID, Tenor: "3M", SwapPoint: decimal.RequireFromString("12.5"), Source: swappoints.SourceManual, UpdatedAt: t0},
	})
	require.NoError(t, err)
}

func seedBaseRate(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.store.InsertMarketRate(context.Background(), quote.BaseRate{
		CurrencyPairID: f.pair.ID,
		BuyRate:        1352,
		SellRate:       1350,
		Source:         f.cfg.Market.RateSource,
		UpdatedAt:      fixedNow,
	})
	require.NoError(t, err)
}

func TestPricingService_Calculate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	points := []curve.TenorPoint{
		{Tenor: "1M", Days: 30, SwapPoint: 5},
		{Tenor: "3M", Days: 90, SwapPoint: 15},
	}

	got := f.pricing.Calculate(ctx, CalculateInput{
		SpotRate:       1300,
		Points:         points,
		SpotDate:       &fixedSpot,
		SettlementDate: fixedSpot.AddDays(60),
	})
	require.True(t, got.OK(), got.Error)
	assert.Equal(t, fixedSpot, got.SpotDate)
	assert.Equal(t, 60, got.TargetDays)
	assert.InDelta(t, 10, got.InterpolatedSwapPoint, 1e-9)
	assert.InDelta(t, 1300.1, got.ForwardRate, 1e-9)

	// Without a spot date, spot is derived from the trade date.
	got = f.pricing.Calculate(ctx, CalculateInput{
		SpotRate:       1300,
		Points:         points,
		TradeDate:      &fixedToday,
		SettlementDate: fixedSpot,
	})
	require.True(t, got.OK())
	assert.Equal(t, fixedSpot, got.SpotDate)
	assert.Equal(t, 1300.0, got.ForwardRate)

	got = f.pricing.Calculate(ctx, CalculateInput{
		SpotRate:       1300,
		Points:         points,
		SettlementDate: fixedToday,
	})
	assert.False(t, got.OK())
	assert.Equal(t, apperrors.ErrTypeInvalidSettlement, got.ErrorType)
	assert.Zero(t, got.ForwardRate)
}

func TestPricingService_Curve(t *testing.T) {
	f := newFixture(t)
	seedCurve(t, f)

	res, err := f.pricing.Curve(context.Background(), f.pair.ID, fixedToday)
	require.NoError(t, err)
	assert.Equal(t, fixedSpot, res.SpotDate)
	assert.Equal(t, []curve.TenorPoint{
		{Tenor: "1M", Days: 28, SwapPoint: 4.75},
		{Tenor: "3M", Days: 92, SwapPoint: 12.5},
	}, res.Points)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, swappoints.ReasonShortDated, res.Dropped[0].Reason)

	pc, err := f.pricing.PairCurve(context.Background(), "usdkrw")
	require.NoError(t, err)
	assert.Equal(t, f.pair.ID, pc.CurrencyPairID)
	assert.Equal(t, fixedToday, pc.TradeDate)
	assert.Equal(t, res.Points, pc.Points)

	_, err = f.pricing.PairCurve(context.Background(), "EUR/KRW")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestPricingService_CurveIgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	seedCurve(t, f)

	// Another caller may be waiting on the same flight, so a cancelled
	// leader must not fail the shared read.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.pricing.Curve(ctx, f.pair.ID, fixedToday)
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)
}

func TestPricingService_ForwardQuote(t *testing.T) {
	f := newFixture(t)
	seedCurve(t, f)
	seedBaseRate(t, f)

	got, err := f.pricing.ForwardQuote(context.Background(), QuoteInput{
		CurrencyPairID: "USD/KRW",
		SettlementDate: datep(2025, time.April, 4),
	})
	require.NoError(t, err)

	assert.Equal(t, f.pair.ID, got.CurrencyPairID)
	assert.Equal(t, fixedToday, got.TradeDate)
	assert.Equal(t, fixedSpot, got.SpotDate)
	assert.Equal(t, 1351.0, got.SpotRate)
	assert.Equal(t, 2, got.CurvePoints)
	assert.Equal(t, 60, got.Result.TargetDays)
	assert.InDelta(t, 8.625, got.Result.InterpolatedSwapPoint, 1e-9)
	assert.InDelta(t, 1351.08625, got.Result.ForwardRate, 1e-9)

	require.NotNil(t, got.Customer)
	assert.True(t, got.Customer.Available)
	assert.Equal(t, 10.0, got.Customer.Spread)
	assert.InDelta(t, 1352.18625, got.Customer.BuyRate, 1e-9)
	assert.InDelta(t, 1349.98625, got.Customer.SellRate, 1e-9)
}

func TestPricingService_ForwardQuote_Tenor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCurve(t, f)
	seedBaseRate(t, f)

	_, err := f.store.CreateSpreadSetting(ctx, quote.SpreadSetting{
		ProductType:    quote.ProductForward,
		CurrencyPairID: f.pair.ID,
		BaseSpread:     20,
		TenorSpreads:   map[string]float64{"3M": 30},
		IsActive:       true,
	})
	require.NoError(t, err)

	got, err := f.pricing.ForwardQuote(ctx, QuoteInput{CurrencyPairID: f.pair.ID, Tenor: "3m"})
	require.NoError(t, err)

	assert.Equal(t, "3M", got.Tenor)
	assert.Equal(t, *datep(2025, time.May, 6), got.SettlementDate)
	assert.Equal(t, 92, got.Result.TargetDays)
	assert.InDelta(t, 12.5, got.Result.InterpolatedSwapPoint, 1e-9)
	require.NotNil(t, got.Customer)
	assert.Equal(t, 30.0, got.Customer.Spread)
	assert.InDelta(t, 1352+0.125+0.3, got.Customer.BuyRate, 1e-9)
}

func TestPricingService_ForwardQuote_SpotOverrideWithoutBaseRate(t *testing.T) {
	f := newFixture(t)
	seedCurve(t, f)
	spot := 1300.0

	got, err := f.pricing.ForwardQuote(context.Background(), QuoteInput{
		CurrencyPairID: f.pair.ID,
		Tenor:          "1M",
		SpotRate:       &spot,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1300.0475, got.Result.ForwardRate, 1e-9)
	assert.Nil(t, got.Customer)
}

func TestPricingService_ForwardQuote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		seed    bool
		in      QuoteInput
		errType apperrors.ErrorType
	}{
		{
			name:    "unknown pair",
			in:      QuoteInput{CurrencyPairID: "EUR/KRW", Tenor: "1M"},
			errType: apperrors.ErrTypeNotFound,
		},
		{
			name:    "no locator",
			in:      QuoteInput{CurrencyPairID: "USD/KRW"},
			errType: apperrors.ErrTypeValidation,
		},
		{
			name:    "no base rate",
			in:      QuoteInput{CurrencyPairID: "USD/KRW", Tenor: "1M"},
			errType: apperrors.ErrTypeMissingBaseRate,
		},
		{
			name:    "settlement before spot",
			seed:    true,
			in:      QuoteInput{CurrencyPairID: "USD/KRW", SettlementDate: &fixedToday},
			errType: apperrors.ErrTypeInvalidSettlement,
		},
		{
			name:    "empty curve",
			in:      QuoteInput{CurrencyPairID: "USD/KRW", Tenor: "2M", SpotRate: func() *float64 { v := 1300.0; return &v }()},
			errType: apperrors.ErrTypeInsufficientCurveData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.seed {
				seedCurve(t, f)
				seedBaseRate(t, f)
			}

			_, err := f.pricing.ForwardQuote(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.errType, apperrors.TypeOf(err), err.Error())
		})
	}
}
