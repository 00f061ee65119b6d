package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/infrastructure"
)

// CalendarService exposes settlement-date arithmetic over the live holiday
// table and reloads that table on demand.
type CalendarService struct {
	cal          *calendar.Calendar
	holidaysFile string
	loc          *time.Location
	metrics      *infrastructure.Metrics
	logger       *slog.Logger
	now          func() time.Time

	reloadMu sync.Mutex
}

// HolidayInfo describes the holiday table in use.
type HolidayInfo struct {
	Version string `json:"version"`
	KR      int    `json:"kr"`
	US      int    `json:"us"`
}

// TenorDate is a tenor resolved against a trade date.
type TenorDate struct {
	Tenor          string     `json:"tenor"`
	TradeDate      civil.Date `json:"tradeDate"`
	SpotDate       civil.Date `json:"spotDate"`
	SettlementDate civil.Date `json:"settlementDate"`
	Days           int        `json:"days"`
}

// Conversion relates a settlement date to its offset from spot.
type Conversion struct {
	SpotDate       civil.Date `json:"spotDate"`
	SettlementDate civil.Date `json:"settlementDate"`
	Days           int        `json:"days"`
}

// NewCalendarService creates a CalendarService. If cfg.HolidaysFile is set
// it is loaded immediately and a failure is returned.
func NewCalendarService(cal *calendar.Calendar, cfg config.CalendarConfig, metrics *infrastructure.Metrics, logger *slog.Logger) (*CalendarService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cal == nil {
		cal = calendar.NewDefault()
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid calendar timezone "+cfg.Timezone, err)
		}
		loc = l
	}

	s := &CalendarService{
		cal:          cal,
		holidaysFile: cfg.HolidaysFile,
		loc:          loc,
		metrics:      metrics,
		logger:       logger.With(slog.String("service", "calendar")),
		now:          time.Now,
	}

	if cfg.HolidaysFile != "" {
		if _, err := s.Reload(context.Background(), cfg.HolidaysFile); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Calendar returns the live calendar.
func (s *CalendarService) Calendar() *calendar.Calendar {
	return s.cal
}

// Today returns the current date in the desk's time zone.
func (s *CalendarService) Today() civil.Date {
	return civil.DateOf(s.now().In(s.loc))
}

// SpotDate returns the spot date for trade, or for today when trade is nil.
func (s *CalendarService) SpotDate(trade *civil.Date) (civil.Date, civil.Date) {
	t := s.Today()
	if trade != nil {
		t = *trade
	}
	return t, s.cal.SpotDate(t)
}

// BusinessDays counts KR business days in (from, to].
func (s *CalendarService) BusinessDays(from, to civil.Date) int {
	return s.cal.BusinessDaysBetween(from, to)
}

// AddBusinessDays advances d by n KR business days with US rollover.
func (s *CalendarService) AddBusinessDays(d civil.Date, n int) civil.Date {
	return s.cal.AddBusinessDays(d, n)
}

// Holidays lists one jurisdiction's holidays, optionally for a single year
// (year 0 lists all).
func (s *CalendarService) Holidays(j calendar.Jurisdiction, year int) []calendar.Holiday {
	return s.cal.Holidays().List(j, year)
}

// Info describes the live holiday table.
func (s *CalendarService) Info() HolidayInfo {
	h := s.cal.Holidays()
	return HolidayInfo{
		Version: h.Version(),
		KR:      h.Len(calendar.KR),
		US:      h.Len(calendar.US),
	}
}

// TenorDate resolves tenor against trade, or against today when trade is nil.
func (s *CalendarService) TenorDate(trade *civil.Date, tenor string) (TenorDate, error) {
	today, spot := s.SpotDate(trade)

	settlement, err := s.cal.TenorToSettlementDate(today, spot, tenor)
	if err != nil {
		return TenorDate{}, err
	}

	t, _ := calendar.ParseTenor(tenor)
	return TenorDate{
		Tenor:          t.Label,
		TradeDate:      today,
		SpotDate:       spot,
		SettlementDate: settlement,
		Days:           calendar.DaysFromSpot(spot, settlement),
	}, nil
}

// Convert turns a settlement date into days from spot or days into a
// settlement date. Exactly one of settlement and days must be given.
func (s *CalendarService) Convert(spot civil.Date, settlement *civil.Date, days *int) (Conversion, error) {
	switch {
	case settlement != nil && days != nil:
		return Conversion{}, apperrors.NewAppValidationError("provide either settlementDate or days, not both")
	case settlement != nil:
		return Conversion{
			SpotDate:       spot,
			SettlementDate: *settlement,
			Days:           calendar.DaysFromSpot(spot, *settlement),
		}, nil
	case days != nil:
		return Conversion{
			SpotDate:       spot,
			SettlementDate: calendar.SettlementFromDays(spot, *days),
			Days:           *days,
		}, nil
	default:
		return Conversion{}, apperrors.NewAppValidationError("settlementDate or days is required")
	}
}

// Reload replaces the holiday table with the one in path, or with the
// configured file when path is empty, or with the embedded defaults when
// neither is set. The live table is untouched on failure.
func (s *CalendarService) Reload(ctx context.Context, path string) (HolidayInfo, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if path == "" {
		path = s.holidaysFile
	}

	var (
		h   *calendar.Holidays
		err error
	)
	if path == "" {
		h = calendar.DefaultHolidays()
	} else {
		h, err = calendar.LoadHolidaysFile(path)
		if err != nil {
			err = apperrors.NewParsingError("failed to load holiday table: "+err.Error(), err)
		}
	}
	if err != nil {
		s.metrics.RecordHolidayReload(ctx, outcomeOf(err))
		s.logger.ErrorContext(ctx, "holiday reload failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return s.Info(), err
	}

	s.cal.Replace(h)
	s.metrics.RecordHolidayReload(ctx, "")

	info := s.Info()
	s.logger.InfoContext(ctx, "holiday table reloaded",
		slog.String("version", info.Version),
		slog.Int("kr", info.KR),
		slog.Int("us", info.US))

	return info, nil
}
