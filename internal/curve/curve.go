// Package curve interpolates swap points on a discrete tenor curve.
package curve

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "fxdesk/internal/errors"
)

// TenorPoint is one quoted point on a swap-point curve. Days are calendar
// days from spot.
type TenorPoint struct {
	Tenor     string  `json:"tenor"`
	Days      int     `json:"days"`
	SwapPoint float64 `json:"swapPoint"`
}

// Bracket is the pair of points an interpolation was taken from.
type Bracket struct {
	Lower TenorPoint `json:"lower"`
	Upper TenorPoint `json:"upper"`
}

// Interpolation is the outcome of Interpolate.
type Interpolation struct {
	SwapPoint float64 `json:"swapPoint"`
	Bracket   Bracket `json:"bracket"`
}

// MinPoints is the smallest usable curve.
const MinPoints = 2

// Usable returns points without ON/TN, stably sorted by days. The input is
// not modified.
func Usable(points []TenorPoint) []TenorPoint {
	out := make([]TenorPoint, 0, len(points))
	for _, p := range points {
		if isShortDated(p.Tenor) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out
}

// Interpolate returns the swap point at targetDays. Targets outside the
// curve are extrapolated from the two nearest points.
func Interpolate(points []TenorPoint, targetDays int) (Interpolation, error) {
	sorted := Usable(points)
	if len(sorted) < MinPoints {
		return Interpolation{}, apperrors.NewInsufficientCurveDataError(
			fmt.Sprintf("insufficient swap point data: need at least %d points, have %d", MinPoints, len(sorted)),
		).WithContext("points", len(sorted))
	}

	for _, p := range sorted {
		if math.IsNaN(p.SwapPoint) || math.IsInf(p.SwapPoint, 0) {
			return Interpolation{}, apperrors.NewAppValidationError(
				fmt.Sprintf("swap point for %q is not a finite number", p.Tenor))
		}
	}

	lower, upper, exact := bracket(sorted, targetDays)
	if exact {
		hit := lower
		if upper.Days == targetDays {
			hit = upper
		}
		return Interpolation{SwapPoint: hit.SwapPoint, Bracket: Bracket{Lower: lower, Upper: upper}}, nil
	}

	return Interpolation{
		SwapPoint: linear(targetDays, lower, upper),
		Bracket:   Bracket{Lower: lower, Upper: upper},
	}, nil
}

// bracket picks the points around target in a sorted curve of at least two
// points. Out-of-range targets get the edge pair. A target on a curve point is
// reported with the point below it, or with the next point when it is the
// first, and exact is true.
func bracket(sorted []TenorPoint, target int) (TenorPoint, TenorPoint, bool) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].Days >= target })

	switch {
	case i == 0 && sorted[0].Days == target:
		return sorted[0], sorted[1], true
	case i < len(sorted) && sorted[i].Days == target:
		return sorted[i-1], sorted[i], true
	case i == 0:
		return sorted[0], sorted[1], false
	case i >= len(sorted):
		return sorted[len(sorted)-2], sorted[len(sorted)-1], false
	default:
		return sorted[i-1], sorted[i], false
	}
}

func linear(target int, lower, upper TenorPoint) float64 {
	if upper.Days == lower.Days {
		return lower.SwapPoint
	}
	ratio := float64(target-lower.Days) / float64(upper.Days-lower.Days)
	return lower.SwapPoint + ratio*(upper.SwapPoint-lower.SwapPoint)
}

func isShortDated(tenor string) bool {
	t := strings.ToUpper(strings.TrimSpace(tenor))
	return t == "ON" || t == "TN"
}
