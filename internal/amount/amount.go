// Package amount applies currency rounding rules to trade amounts and
// formats them for display.
//
// KRW has no minor unit and is truncated toward negative infinity. USD and
// every other currency are scaled by 100, rounded half away from zero and
// scaled back, on the float64 value as received. 1.005 is stored as
// 1.00499999... and so rounds to 1.00. Parsing and fixed-point rendering go
// through shopspring/decimal.
package amount

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	apperrors "fxdesk/internal/errors"
)

// Currency codes with their own rules.
const (
	KRW = "KRW"
	USD = "USD"
)

// DefaultScale is the number of decimals kept for currencies other than KRW.
const DefaultScale = 2

// Scale returns the number of decimals kept for code.
func Scale(code string) int32 {
	if strings.EqualFold(code, KRW) {
		return 0
	}
	return DefaultScale
}

// Calculate applies the currency rule to x: 1234.99 KRW becomes 1234 and
// 0.125 USD becomes 0.13. NaN and infinities are returned unchanged.
func Calculate(x float64, code string) float64 {
	if !finite(x) {
		return x
	}
	if strings.EqualFold(code, KRW) {
		return math.Floor(x)
	}
	return math.Round(x*100) / 100
}

// Format renders x with the currency rule and no grouping, e.g. "1234" or
// "12.50". It returns "" for NaN and infinities.
func Format(x float64, code string) string {
	if !finite(x) {
		return ""
	}
	return decimal.NewFromFloat(Calculate(x, code)).StringFixed(Scale(code))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate reports whether value is an acceptable trade amount in code.
func Validate(value, code string) bool {
	_, err := Parse(value, code)
	return err == nil
}

// Parse validates value and returns it as a decimal. Thousand separators are
// accepted. The amount must be positive, and KRW amounts must be whole.
func Parse(value, code string) (decimal.Decimal, error) {
	raw := RemoveThousandSeparator(strings.TrimSpace(value))
	if raw == "" {
		return decimal.Zero, apperrors.NewInvalidAmountError("amount is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewInvalidAmountError(fmt.Sprintf("amount %q is not a number", value))
	}

	if !d.IsPositive() {
		return decimal.Zero, apperrors.NewInvalidAmountError("amount must be greater than zero")
	}

	if strings.EqualFold(code, KRW) && !d.IsInteger() {
		return decimal.Zero, apperrors.NewInvalidAmountError("KRW amount must be a whole number")
	}

	return d, nil
}

// ParseCurrency checks that code is an ISO 4217 currency and returns it upper-cased.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", apperrors.NewAppValidationError(fmt.Sprintf("unknown currency %q", code))
	}
	return unit.String(), nil
}

// Display renders x for people: the currency rule, locale digit grouping and
// the ISO code, e.g. "KRW 1,234,567" for English.
// It returns "" for NaN and infinities.
func Display(x float64, code string, tag language.Tag) string {
	if !finite(x) {
		return ""
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%s %v", strings.ToUpper(code),
		number.Decimal(Calculate(x, code), number.Scale(int(Scale(code)))))
}
