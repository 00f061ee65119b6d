package calendar

import (
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"
)

// Calendar performs KR/US business-day arithmetic against a holiday table
// that can be swapped at runtime. Every method reads one table snapshot, so
// a concurrent Replace never mixes tables within a call.
type Calendar struct {
	holidays atomic.Pointer[Holidays]
}

// New creates a Calendar over h. A nil h means no holidays.
func New(h *Holidays) *Calendar {
	c := &Calendar{}
	c.Replace(h)
	return c
}

// NewDefault creates a Calendar over the embedded holiday tables.
func NewDefault() *Calendar {
	return New(DefaultHolidays())
}

// Replace atomically installs a new holiday table.
func (c *Calendar) Replace(h *Holidays) {
	if h == nil {
		h = NewHolidays(nil, nil)
	}
	c.holidays.Store(h)
}

// Holidays returns the current table.
func (c *Calendar) Holidays() *Holidays {
	return c.holidays.Load()
}

// IsHoliday reports exact membership of d in the jurisdiction's table.
func (c *Calendar) IsHoliday(d civil.Date, j Jurisdiction) bool {
	return c.Holidays().Contains(j, d)
}

// IsBusinessDay reports whether d is a KR business day.
func (c *Calendar) IsBusinessDay(d civil.Date) bool {
	return isBusinessDay(c.Holidays(), d)
}

// AddBusinessDays advances n KR business days from d. A result that falls
// on a US holiday is pushed on by one more business day, repeatedly.
// n <= 0 returns d unchanged.
func (c *Calendar) AddBusinessDays(d civil.Date, n int) civil.Date {
	return addBusinessDays(c.Holidays(), d, n)
}

// SpotDate returns the T+2 settlement date for trade date d.
func (c *Calendar) SpotDate(d civil.Date) civil.Date {
	return c.AddBusinessDays(d, 2)
}

// AdjustFollowing returns the first KR business day on or after d.
func (c *Calendar) AdjustFollowing(d civil.Date) civil.Date {
	return adjustFollowing(c.Holidays(), d)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b civil.Date) int {
	return b.DaysSince(a)
}

// BusinessDaysBetween counts KR business days in (a, b]. It returns 0 when
// b is not after a.
func (c *Calendar) BusinessDaysBetween(a, b civil.Date) int {
	if !b.After(a) {
		return 0
	}
	h := c.Holidays()
	count := 0
	for d := a.AddDays(1); !d.After(b); d = d.AddDays(1) {
		if isBusinessDay(h, d) {
			count++
		}
	}
	return count
}

// DaysFromSpot returns the calendar-day offset of settlement from spot.
func DaysFromSpot(spot, settlement civil.Date) int {
	return DaysBetween(spot, settlement)
}

// SettlementFromDays returns the date days calendar days after spot.
func SettlementFromDays(spot civil.Date, days int) civil.Date {
	return spot.AddDays(days)
}

// Today returns the current date in loc.
func Today(loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.Now().In(loc))
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func isBusinessDay(h *Holidays, d civil.Date) bool {
	switch weekday(d) {
	case time.Saturday, time.Sunday:
		return false
	}
	return !h.Contains(KR, d)
}

func addBusinessDays(h *Holidays, d civil.Date, n int) civil.Date {
	if n <= 0 {
		return d
	}
	for n > 0 {
		d = d.AddDays(1)
		if isBusinessDay(h, d) {
			n--
		}
	}
	if h.Contains(US, d) {
		return addBusinessDays(h, d, 1)
	}
	return d
}

func adjustFollowing(h *Holidays, d civil.Date) civil.Date {
	for !isBusinessDay(h, d) {
		d = d.AddDays(1)
	}
	return d
}
