package swappoints

import (
	"sort"

	"cloud.google.com/go/civil"

	"fxdesk/internal/calendar"
	"fxdesk/internal/curve"
)

// CurveResult is a curve built from stored records plus what was left out.
type CurveResult struct {
	SpotDate civil.Date         `json:"spotDate"`
	Points   []curve.TenorPoint `json:"points"`
	Dropped  []DroppedRecord    `json:"dropped,omitempty"`
}

// DroppedRecord explains why a record is not on the curve.
type DroppedRecord struct {
	ID     string `json:"id,omitempty"`
	Tenor  string `json:"tenor,omitempty"`
	Reason string `json:"reason"`
}

// Drop reasons.
const (
	ReasonNoLocator  = "no usable tenor, settlement date or days"
	ReasonSuperseded = "superseded by a newer quote for the same settlement date"
	ReasonBeforeSpot = "settles before spot"
	ReasonShortDated = "ON/TN tenors are not part of the forward curve"
)

type located struct {
	rec        Record
	settlement civil.Date
}

// BuildCurve places each record on the curve relative to spot. A record's
// settlement date comes from the record itself, else from its tenor, else
// from its days. For each settlement date only the most recently updated
// record is kept. Pre-spot and ON/TN points are dropped. Dropped records are
// listed in input order, then by settlement date.
func BuildCurve(cal *calendar.Calendar, today, spot civil.Date, records []Record) CurveResult {
	res := CurveResult{SpotDate: spot, Points: []curve.TenorPoint{}}

	latest := make(map[civil.Date]located, len(records))
	for _, rec := range records {
		settlement, ok := locate(cal, today, spot, rec)
		if !ok {
			res.Dropped = append(res.Dropped, dropped(rec, ReasonNoLocator))
			continue
		}

		if prev, seen := latest[settlement]; seen {
			if !rec.UpdatedAt.After(prev.rec.UpdatedAt) {
				res.Dropped = append(res.Dropped, dropped(rec, ReasonSuperseded))
				continue
			}
			res.Dropped = append(res.Dropped, dropped(prev.rec, ReasonSuperseded))
		}
		latest[settlement] = located{rec: rec, settlement: settlement}
	}

	settlements := make([]civil.Date, 0, len(latest))
	for d := range latest {
		settlements = append(settlements, d)
	}
	sort.Slice(settlements, func(i, j int) bool { return settlements[i].Before(settlements[j]) })

	for _, d := range settlements {
		l := latest[d]
		if calendar.IsShortDated(l.rec.Tenor) {
			res.Dropped = append(res.Dropped, dropped(l.rec, ReasonShortDated))
			continue
		}

		days := calendar.DaysFromSpot(spot, l.settlement)
		if days < 0 {
			res.Dropped = append(res.Dropped, dropped(l.rec, ReasonBeforeSpot))
			continue
		}

		tenor := l.rec.Tenor
		if tenor == "" {
			tenor = l.settlement.String()
		}

		res.Points = append(res.Points, curve.TenorPoint{
			Tenor:     tenor,
			Days:      days,
			SwapPoint: l.rec.SwapPoint.InexactFloat64(),
		})
	}

	sort.Slice(res.Points, func(i, j int) bool {
		if res.Points[i].Days != res.Points[j].Days {
			return res.Points[i].Days < res.Points[j].Days
		}
		return res.Points[i].Tenor < res.Points[j].Tenor
	})

	return res
}

func locate(cal *calendar.Calendar, today, spot civil.Date, rec Record) (civil.Date, bool) {
	if rec.SettlementDate != nil {
		return *rec.SettlementDate, true
	}
	if rec.Tenor != "" {
		if d, err := cal.TenorToSettlementDate(today, spot, rec.Tenor); err == nil {
			return d, true
		}
	}
	if rec.Days != nil {
		return calendar.SettlementFromDays(spot, *rec.Days), true
	}
	return civil.Date{}, false
}

func dropped(rec Record, reason string) DroppedRecord {
	return DroppedRecord{ID: rec.ID, Tenor: rec.Tenor, Reason: reason}
}
