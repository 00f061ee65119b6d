package quote

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxdesk/internal/errors"
)

const pair = "usdkrw"

func settings() []SpreadSetting {
	return []SpreadSetting{
		{ID: "default", ProductType: ProductSpot, CurrencyPairID: pair, BaseSpread: 20, IsActive: true},
		{ID: "major", ProductType: ProductSpot, CurrencyPairID: pair, GroupType: GroupMajor, GroupValue: "corp", BaseSpread: 15, IsActive: true},
		{ID: "mid", ProductType: ProductSpot, CurrencyPairID: pair, GroupType: GroupMid, GroupValue: "export", BaseSpread: 12, IsActive: true,
			TenorSpreads: map[string]float64{"1M": 9, "SPOT": 11}},
		{ID: "sub", ProductType: ProductSpot, CurrencyPairID: pair, GroupType: GroupSub, GroupValue: "vip", BaseSpread: 5, IsActive: true},
		{ID: "inactive-sub", ProductType: ProductSpot, CurrencyPairID: pair, GroupType: GroupSub, GroupValue: "old", BaseSpread: 1, IsActive: false},
		{ID: "forward-default", ProductType: ProductForward, CurrencyPairID: pair, BaseSpread: 30, IsActive: true},
	}
}

func TestResolveSpread(t *testing.T) {
	tests := []struct {
		name    string
		product ProductType
		pairID  string
		groups  CustomerGroups
		tenor   string
		want    float64
	}{
		{"sub wins", ProductSpot, pair, CustomerGroups{Major: "corp", Mid: "export", Sub: "vip"}, "", 5},
		{"mid over major", ProductSpot, pair, CustomerGroups{Major: "corp", Mid: "export"}, "", 12},
		{"major over default", ProductSpot, pair, CustomerGroups{Major: "corp", Mid: "other"}, "", 15},
		{"default setting", ProductSpot, pair, CustomerGroups{Major: "retail"}, "", 20},
		{"tenor override lower-case", ProductSpot, pair, CustomerGroups{Mid: "export"}, "1m", 9},
		{"tenor without entry uses base", ProductSpot, pair, CustomerGroups{Mid: "export"}, "3M", 12},
		{"inactive ignored", ProductSpot, pair, CustomerGroups{Sub: "old"}, "", 20},
		{"other product", ProductForward, pair, CustomerGroups{Sub: "vip"}, "", 30},
		{"nothing configured", ProductMAR, pair, CustomerGroups{}, "", DefaultSpreadBps},
		{"other pair", ProductSpot, "eurkrw", CustomerGroups{Sub: "vip"}, "", DefaultSpreadBps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSpread(settings(), tt.product, tt.pairID, tt.groups, tt.tenor)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSpreadWithDefault(t *testing.T) {
	assert.Equal(t, 7.5, ResolveSpreadWithDefault(nil, ProductSpot, pair, CustomerGroups{}, "", 7.5))
}

func TestResolveSpread_EmptyGroupValueIsDefault(t *testing.T) {
	s := []SpreadSetting{
		{ProductType: ProductSwap, CurrencyPairID: pair, GroupType: GroupSub, BaseSpread: 3, IsActive: true},
	}
	assert.Equal(t, 3.0, ResolveSpread(s, ProductSwap, pair, CustomerGroups{}, ""))
}

func TestCompose(t *testing.T) {
	base := BaseRate{CurrencyPairID: pair, BuyRate: 1350.50, SellRate: 1349.50, Source: "infomax"}

	got, err := Compose(base, NewSpread(20))
	require.NoError(t, err)

	assert.InDelta(t, 1350.70, got.BuyRate, 1e-9)
	assert.InDelta(t, 1349.30, got.SellRate, 1e-9)
	assert.Equal(t, 20.0, got.Spread)
	assert.True(t, got.Available)
	require.NotNil(t, got.BaseRate)
	assert.Equal(t, base, *got.BaseRate)
}

func TestCompose_NoOrderingEnforced(t *testing.T) {
	got, err := Compose(BaseRate{BuyRate: 100, SellRate: 100}, NewSpread(-500))
	require.NoError(t, err)
	assert.Less(t, got.BuyRate, got.SellRate)
}

func TestCompose_RejectsNaN(t *testing.T) {
	_, err := Compose(BaseRate{BuyRate: math.NaN(), SellRate: 1}, NewSpread(10))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestComposeMAR(t *testing.T) {
	got, err := ComposeMAR(nil, NewSpread(10))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingBaseRate))
	assert.False(t, got.Available)
	assert.Nil(t, got.BaseRate)
	assert.Zero(t, got.BuyRate)
	assert.Zero(t, got.SellRate)

	got, err = ComposeMAR(&BaseRate{BuyRate: 1360, SellRate: 1358}, NewSpread(50))
	require.NoError(t, err)
	assert.InDelta(t, 1360.5, got.BuyRate, 1e-9)
	assert.InDelta(t, 1357.5, got.SellRate, 1e-9)
}

func TestNewSpread(t *testing.T) {
	s := NewSpread(10)
	assert.Equal(t, 0.1, s.Buy)
	assert.Equal(t, 0.1, s.Sell)
}

func TestParseProductType(t *testing.T) {
	p, err := ParseProductType("mar")
	require.NoError(t, err)
	assert.Equal(t, ProductMAR, p)

	_, err = ParseProductType("option")
	assert.Error(t, err)
}

func TestBaseRate_Shift(t *testing.T) {
	shifted := BaseRate{BuyRate: 1350, SellRate: 1349}.Shift(0.08375)
	assert.InDelta(t, 1350.08375, shifted.BuyRate, 1e-9)
	assert.InDelta(t, 1349.08375, shifted.SellRate, 1e-9)
	assert.InDelta(t, 1349.58375, shifted.Mid(), 1e-9)
}
