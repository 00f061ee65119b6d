package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/config"
	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/swappoints"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), config.StorageConfig{
		DatabasePath: filepath.Join(t.TempDir(), "db", "fxdesk.db"),
		SeedDefaults: true,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func usdkrw(t *testing.T, s *Store) CurrencyPair {
	t.Helper()
	p, err := s.GetCurrencyPair(context.Background(), "USD/KRW")
	require.NoError(t, err)
	return p
}

func TestOpen_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SeedDefaults(ctx))
	require.NoError(t, s.Ping(ctx))

	pairs, err := s.ListCurrencyPairs(ctx, true)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "USD/KRW", pairs[0].Symbol)
	assert.Equal(t, "USD", pairs[0].BaseCurrency)
	assert.Equal(t, "KRW", pairs[0].QuoteCurrency)
	assert.True(t, pairs[0].IsActive)
}

func TestGetCurrencyPair(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seeded := usdkrw(t, s)

	for _, key := range []string{seeded.ID, "USD/KRW", "usdkrw"} {
		got, err := s.GetCurrencyPair(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, seeded, got)
	}

	_, err := s.GetCurrencyPair(ctx, "EUR/KRW")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyPairNotFound)
}

func TestListCurrencyPairs_ActiveOnly(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.CreateCurrencyPair(ctx, CurrencyPair{Symbol: "jpy/krw", BaseCurrency: "JPY", QuoteCurrency: "KRW"})
	require.NoError(t, err)

	all, err := s.ListCurrencyPairs(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "JPY/KRW", all[0].Symbol)

	active, err := s.ListCurrencyPairs(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestLatestMarketRate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pair := usdkrw(t, s)

	none, err := s.LatestMarketRate(ctx, pair.ID, "infomax")
	require.NoError(t, err)
	assert.Nil(t, none)

	t0 := time.Date(2025, 1, 27, 9, 0, 0, 0, time.UTC)
	for _, r := range []quote.BaseRate{
		{CurrencyPairID: pair.ID, BuyRate: 1350, SellRate: 1349, Source: "infomax", UpdatedAt: t0},
		{CurrencyPairID: pair.ID, BuyRate: 1352, SellRate: 1351, Source: "infomax", UpdatedAt: t0.Add(time.Minute)},
		{CurrencyPairID: pair.ID, BuyRate: 1400, SellRate: 1399, Source: "manual", UpdatedAt: t0.Add(time.Hour)},
	} {
		_, err := s.InsertMarketRate(ctx, r)
		require.NoError(t, err)
	}

	got, err := s.LatestMarketRate(ctx, pair.ID, "infomax")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1352.0, got.BuyRate)
	assert.Equal(t, 1351.0, got.SellRate)
	assert.Equal(t, t0.Add(time.Minute), got.UpdatedAt)
	assert.NotEmpty(t, got.ID)

	latest, err := s.LatestMarketRate(ctx, pair.ID, "")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "manual", latest.Source)
}

func TestSpreadSettings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pair := usdkrw(t, s)

	created, err := s.CreateSpreadSetting(ctx, quote.SpreadSetting{
		ProductType:    quote.ProductForward,
		CurrencyPairID: pair.ID,
		GroupType:      quote.GroupMid,
		GroupValue:     "export",
		BaseSpread:     12.5,
		TenorSpreads:   map[string]float64{"1M": 9, "3M": 11},
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.CreateSpreadSetting(ctx, quote.SpreadSetting{
		ProductType: quote.ProductForward, CurrencyPairID: pair.ID, BaseSpread: 40, IsActive: false,
	})
	require.NoError(t, err)
	_, err = s.CreateSpreadSetting(ctx, quote.SpreadSetting{
		ProductType: quote.ProductSpot, CurrencyPairID: pair.ID, BaseSpread: 20, IsActive: true,
	})
	require.NoError(t, err)

	active, err := s.ActiveSpreadSettings(ctx, quote.ProductForward, pair.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)
	assert.Equal(t, quote.GroupMid, active[0].GroupType)
	assert.Equal(t, map[string]float64{"1M": 9, "3M": 11}, active[0].TenorSpreads)

	all, err := s.ListSpreadSettings(ctx, SpreadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSwapPoints(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pair := usdkrw(t, s)

	settlement := civil.Date{Year: 2025, Month: time.May, Day: 6}
	days := 180

	stored, err := s.InsertSwapPoints(ctx, []swappoints.Record{
		{CurrencyPairID: pair.ID, Tenor: "3M", SettlementDate: &settlement, SwapPoint: decimal.RequireFromString("12.345"), Source: swappoints.SourceExcelUpload, UploadedBy: "admin"},
		{CurrencyPairID: pair.ID, Days: &days, SwapPoint: decimal.RequireFromString("-0.75"), Source: swappoints.SourceManual},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEmpty(t, stored[0].ID)

	got, err := s.ListSwapPoints(ctx, pair.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[string]swappoints.Record{got[0].ID: got[0], got[1].ID: got[1]}

	first := byID[stored[0].ID]
	require.NotNil(t, first.SettlementDate)
	assert.Equal(t, settlement, *first.SettlementDate)
	assert.Nil(t, first.Days)
	assert.Equal(t, "12.345", first.SwapPoint.String())
	assert.Equal(t, "admin", first.UploadedBy)

	second := byID[stored[1].ID]
	assert.Nil(t, second.SettlementDate)
	require.NotNil(t, second.Days)
	assert.Equal(t, 180, *second.Days)
	assert.Equal(t, "-0.75", second.SwapPoint.String())

	other, err := s.ListSwapPoints(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInsertSwapPoints_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pair := usdkrw(t, s)

	_, err := s.InsertSwapPoints(ctx, []swappoints.Record{
		{ID: "dup", CurrencyPairID: pair.ID, Tenor: "1M", SwapPoint: decimal.NewFromInt(1), Source: swappoints.SourceManual},
		{ID: "dup", CurrencyPairID: pair.ID, Tenor: "2M", SwapPoint: decimal.NewFromInt(2), Source: swappoints.SourceManual},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	got, err := s.ListSwapPoints(ctx, pair.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
