package quote

import "strings"

// DefaultSpreadBps applies when no setting matches.
const DefaultSpreadBps = 10.0

// BpsPerRateUnit converts configured spreads into rate units.
const BpsPerRateUnit = 100.0

// Spread is a resolved spread in basis points together with the amounts
// added to the buy side and taken off the sell side.
type Spread struct {
	Bps  float64
	Buy  float64
	Sell float64
}

// NewSpread returns a symmetric spread of bps basis points.
func NewSpread(bps float64) Spread {
	rate := bps / BpsPerRateUnit
	return Spread{Bps: bps, Buy: rate, Sell: rate}
}

// ResolveSpread picks the spread for a customer using the default of
// DefaultSpreadBps when nothing matches.
func ResolveSpread(settings []SpreadSetting, product ProductType, pairID string, groups CustomerGroups, tenor string) float64 {
	return ResolveSpreadWithDefault(settings, product, pairID, groups, tenor, DefaultSpreadBps)
}

// ResolveSpreadWithDefault picks the best matching active setting for the
// product and pair: sub over mid over major over a default setting. Ties go
// to the first setting. A tenor entry in the winner's TenorSpreads overrides
// its BaseSpread.
func ResolveSpreadWithDefault(settings []SpreadSetting, product ProductType, pairID string, groups CustomerGroups, tenor string, fallbackBps float64) float64 {
	best := -1
	var match *SpreadSetting

	for i := range settings {
		s := &settings[i]
		if !s.IsActive || s.ProductType != product || s.CurrencyPairID != pairID {
			continue
		}

		priority, ok := matchPriority(s, groups)
		if ok && priority > best {
			best = priority
			match = s
		}
	}

	if match == nil {
		return fallbackBps
	}

	if tenor != "" && len(match.TenorSpreads) > 0 {
		if bps, ok := match.TenorSpreads[strings.ToUpper(strings.TrimSpace(tenor))]; ok {
			return bps
		}
	}

	return match.BaseSpread
}

func matchPriority(s *SpreadSetting, groups CustomerGroups) (int, bool) {
	if s.GroupType == GroupDefault || s.GroupValue == "" {
		return 0, true
	}
	switch s.GroupType {
	case GroupSub, GroupMid, GroupMajor:
		if v := groups.value(s.GroupType); v != "" && v == s.GroupValue {
			return s.GroupType.Priority(), true
		}
	}
	return 0, false
}
