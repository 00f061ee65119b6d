// Package api contains API contract definitions for the FX desk.
// Version v1 represents the current stable API version.
//
// Dates travel as YYYY-MM-DD strings and are checked with the isodate tag;
// tenors use the tenor tag and currency codes the currency tag. Those tags
// are registered by middleware.NewValidator.
package api

// Calendar API Requests

// AddBusinessDaysRequest advances a date by KR business days
type AddBusinessDaysRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Days int    `json:"days" validate:"gte=0,lte=3660"`
}

// ConvertRequest converts between a settlement date and days from spot.
// Exactly one of SettlementDate and Days is expected. SpotDate wins over
// TradeDate; with neither, spot is computed from today.
type ConvertRequest struct {
	SpotDate       string `json:"spotDate,omitempty" validate:"omitempty,isodate"`
	TradeDate      string `json:"tradeDate,omitempty" validate:"omitempty,isodate"`
	SettlementDate string `json:"settlementDate,omitempty" validate:"omitempty,isodate"`
	Days           *int   `json:"days,omitempty" validate:"omitempty,gte=0"`
}

// Forward API Requests

// TenorPoint is one caller-supplied curve point
type TenorPoint struct {
	Tenor     string  `json:"tenor" validate:"max=32"`
	Days      int     `json:"days"`
	SwapPoint float64 `json:"swapPoint" validate:"finite"`
}

// ForwardCalculateRequest prices a forward against an explicit curve
type ForwardCalculateRequest struct {
	SpotRate       float64      `json:"spotRate" validate:"required,finite,gt=0"`
	SpotDate       string       `json:"spotDate,omitempty" validate:"omitempty,isodate"`
	TradeDate      string       `json:"tradeDate,omitempty" validate:"omitempty,isodate"`
	SettlementDate string       `json:"settlementDate" validate:"required,isodate"`
	Points         []TenorPoint `json:"points" validate:"max=200,dive"`
}

// CustomerGroupsRequest places a customer in the group hierarchy
type CustomerGroupsRequest struct {
	MajorGroup string `json:"majorGroup,omitempty" validate:"max=64"`
	MidGroup   string `json:"midGroup,omitempty" validate:"max=64"`
	SubGroup   string `json:"subGroup,omitempty" validate:"max=64"`
}

// ForwardQuoteRequest prices a forward from the stored curve of a pair
type ForwardQuoteRequest struct {
	CurrencyPairID string   `json:"currencyPairId" validate:"required"`
	SettlementDate string   `json:"settlementDate,omitempty" validate:"omitempty,isodate"`
	Tenor          string   `json:"tenor,omitempty" validate:"omitempty,tenor"`
	SpotRate       *float64 `json:"spotRate,omitempty" validate:"omitempty,finite,gt=0"`
	CustomerGroupsRequest
}

// Reference Data API Requests

// MarketRateRequest records a base rate observation
type MarketRateRequest struct {
	CurrencyPairID string  `json:"currencyPairId" validate:"required"`
	BuyRate        float64 `json:"buyRate" validate:"required,finite,gt=0"`
	SellRate       float64 `json:"sellRate" validate:"required,finite,gt=0"`
	Source         string  `json:"source,omitempty" validate:"max=64"`
}

// SpreadSettingRequest creates a spread setting. IsActive defaults to true.
type SpreadSettingRequest struct {
	ProductType    string             `json:"productType" validate:"required,oneof=Spot Forward Swap MAR"`
	CurrencyPairID string             `json:"currencyPairId" validate:"required"`
	GroupType      string             `json:"groupType,omitempty" validate:"omitempty,oneof=major mid sub"`
	GroupValue     string             `json:"groupValue,omitempty" validate:"max=64"`
	BaseSpread     float64            `json:"baseSpread" validate:"finite,gte=0"`
	TenorSpreads   map[string]float64 `json:"tenorSpreads,omitempty" validate:"omitempty,dive,keys,tenor,endkeys,finite,gte=0"`
	IsActive       *bool              `json:"isActive,omitempty"`
}

// Amount API Requests

// AmountFormatRequest rounds and formats an amount. Locale is a BCP 47 tag;
// when set a grouped display string is added.
type AmountFormatRequest struct {
	Amount   float64 `json:"amount" validate:"finite"`
	Currency string  `json:"currency" validate:"required,currency"`
	Locale   string  `json:"locale,omitempty" validate:"max=35"`
}

// AmountValidateRequest checks a user-entered amount string
type AmountValidateRequest struct {
	Value    string `json:"value" validate:"max=64"`
	Currency string `json:"currency" validate:"required,currency"`
}
