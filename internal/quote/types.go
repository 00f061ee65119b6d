package quote

import (
	"fmt"
	"strings"
	"time"
)

// ProductType is a tradable product.
type ProductType string

const (
	ProductSpot    ProductType = "Spot"
	ProductForward ProductType = "Forward"
	ProductSwap    ProductType = "Swap"
	ProductMAR     ProductType = "MAR"
)

// Products lists every product type.
var Products = []ProductType{ProductSpot, ProductForward, ProductSwap, ProductMAR}

// ParseProductType accepts product names case-insensitively.
func ParseProductType(s string) (ProductType, error) {
	for _, p := range Products {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown product type %q", s)
}

// GroupType is the level of a customer group a spread applies to. The empty
// GroupType marks a default setting.
type GroupType string

const (
	GroupDefault GroupType = ""
	GroupMajor   GroupType = "major"
	GroupMid     GroupType = "mid"
	GroupSub     GroupType = "sub"
)

// Priority orders group levels; more specific groups win.
func (g GroupType) Priority() int {
	switch g {
	case GroupSub:
		return 3
	case GroupMid:
		return 2
	case GroupMajor:
		return 1
	default:
		return 0
	}
}

// CustomerGroups is the customer's position in the group hierarchy.
type CustomerGroups struct {
	Major string `json:"majorGroup,omitempty"`
	Mid   string `json:"midGroup,omitempty"`
	Sub   string `json:"subGroup,omitempty"`
}

func (c CustomerGroups) value(g GroupType) string {
	switch g {
	case GroupSub:
		return c.Sub
	case GroupMid:
		return c.Mid
	case GroupMajor:
		return c.Major
	default:
		return ""
	}
}

// SpreadSetting configures the spread, in basis points, for a product and
// currency pair, optionally narrowed to a customer group.
type SpreadSetting struct {
	ID             string             `json:"id"`
	ProductType    ProductType        `json:"productType"`
	CurrencyPairID string             `json:"currencyPairId"`
	GroupType      GroupType          `json:"groupType,omitempty"`
	GroupValue     string             `json:"groupValue,omitempty"`
	BaseSpread     float64            `json:"baseSpread"`
	TenorSpreads   map[string]float64 `json:"tenorSpreads,omitempty"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// BaseRate is a market rate record used as the base of customer quotes.
type BaseRate struct {
	ID             string    `json:"id"`
	CurrencyPairID string    `json:"currencyPairId"`
	BuyRate        float64   `json:"buyRate"`
	SellRate       float64   `json:"sellRate"`
	Source         string    `json:"source"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Mid returns the average of buy and sell.
func (b BaseRate) Mid() float64 {
	return (b.BuyRate + b.SellRate) / 2
}

// Shift moves both sides of the rate by delta, e.g. a forward swap point.
func (b BaseRate) Shift(delta float64) BaseRate {
	b.BuyRate += delta
	b.SellRate += delta
	return b
}

// CustomerRate is a spread-adjusted quote. Spread is in basis points.
// Available is false when there was no base rate to quote from.
type CustomerRate struct {
	BuyRate   float64   `json:"buyRate"`
	SellRate  float64   `json:"sellRate"`
	Spread    float64   `json:"spread"`
	BaseRate  *BaseRate `json:"baseRate"`
	Available bool      `json:"available"`
}
