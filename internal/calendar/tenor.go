package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	apperrors "fxdesk/internal/errors"
)

// Tenor units. ON, TN and SPOT carry no count.
const (
	UnitOvernight = "ON"
	UnitTomNext   = "TN"
	UnitSpot      = "SPOT"
	UnitDay       = "D"
	UnitWeek      = "W"
	UnitMonth     = "M"
	UnitYear      = "Y"
)

// Tenor is a parsed tenor label such as "3M".
type Tenor struct {
	Label string
	Unit  string
	Count int
}

// ParseTenor normalises and parses a tenor label. Counts must be positive.
func ParseTenor(s string) (Tenor, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	switch label {
	case UnitOvernight, UnitTomNext, UnitSpot:
		return Tenor{Label: label, Unit: label}, nil
	case "":
		return Tenor{}, apperrors.NewAppValidationError("tenor is required")
	}

	unit := label[len(label)-1:]
	switch unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return Tenor{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown tenor %q", s))
	}

	n, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || n <= 0 {
		return Tenor{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown tenor %q", s))
	}

	return Tenor{Label: label, Unit: unit, Count: n}, nil
}

// IsValidTenor reports whether s parses as a tenor.
func IsValidTenor(s string) bool {
	_, err := ParseTenor(s)
	return err == nil
}

// IsShortDated reports whether s is ON or TN, which sit before spot and are
// excluded from forward curves.
func IsShortDated(s string) bool {
	label := strings.ToUpper(strings.TrimSpace(s))
	return label == UnitOvernight || label == UnitTomNext
}

// TenorToApproxDays maps a tenor to a rough day count from spot:
// SPOT 0, ON -1, TN 0, nD n, nW 7n, nM 30n, nY 360n.
func TenorToApproxDays(s string) (int, bool) {
	t, err := ParseTenor(s)
	if err != nil {
		return 0, false
	}
	switch t.Unit {
	case UnitOvernight:
		return -1, true
	case UnitTomNext, UnitSpot:
		return 0, true
	case UnitDay:
		return t.Count, true
	case UnitWeek:
		return 7 * t.Count, true
	case UnitMonth:
		return 30 * t.Count, true
	default:
		return 360 * t.Count, true
	}
}

// TenorToSettlementDate resolves a tenor to its settlement date. ON and TN
// count business days from today; dated tenors are added to spot and
// rolled to the following KR business day.
func (c *Calendar) TenorToSettlementDate(today, spot civil.Date, tenor string) (civil.Date, error) {
	t, err := ParseTenor(tenor)
	if err != nil {
		return civil.Date{}, err
	}

	h := c.Holidays()

	switch t.Unit {
	case UnitOvernight:
		return addBusinessDays(h, today, 1), nil
	case UnitTomNext:
		return addBusinessDays(h, today, 2), nil
	case UnitSpot:
		return spot, nil
	}

	base := spot.In(time.UTC)
	var target civil.Date
	switch t.Unit {
	case UnitDay:
		target = spot.AddDays(t.Count)
	case UnitWeek:
		target = spot.AddDays(7 * t.Count)
	case UnitMonth:
		target = civil.DateOf(base.AddDate(0, t.Count, 0))
	case UnitYear:
		target = civil.DateOf(base.AddDate(t.Count, 0, 0))
	}

	return adjustFollowing(h, target), nil
}

// TenorDays returns the calendar days from spot to the tenor's settlement date.
func (c *Calendar) TenorDays(today, spot civil.Date, tenor string) (int, error) {
	settlement, err := c.TenorToSettlementDate(today, spot, tenor)
	if err != nil {
		return 0, err
	}
	return DaysBetween(spot, settlement), nil
}
