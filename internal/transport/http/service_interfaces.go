package http

import (
	"context"
	"io"

	"cloud.google.com/go/civil"

	"fxdesk/internal/calendar"
	"fxdesk/internal/quote"
	"fxdesk/internal/services"
	"fxdesk/internal/store"
	"fxdesk/internal/swappoints"
)

// CalendarServiceInterface is the calendar surface used by CalendarHandler
type CalendarServiceInterface interface {
	SpotDate(trade *civil.Date) (civil.Date, civil.Date)
	BusinessDays(from, to civil.Date) int
	AddBusinessDays(d civil.Date, n int) civil.Date
	Holidays(j calendar.Jurisdiction, year int) []calendar.Holiday
	Info() services.HolidayInfo
	Reload(ctx context.Context, path string) (services.HolidayInfo, error)
	TenorDate(trade *civil.Date, tenor string) (services.TenorDate, error)
	Convert(spot civil.Date, settlement *civil.Date, days *int) (services.Conversion, error)
}

// PricingServiceInterface is the pricing surface used by ForwardHandler and
// CurrencyPairHandler
type PricingServiceInterface interface {
	Calculate(ctx context.Context, in services.CalculateInput) services.Calculation
	ForwardQuote(ctx context.Context, in services.QuoteInput) (services.ForwardQuote, error)
	PairCurve(ctx context.Context, currencyPairID string) (services.PairCurve, error)
}

// RateServiceInterface is the rate surface used by RateHandler and
// ReferenceDataHandler
type RateServiceInterface interface {
	CustomerRate(ctx context.Context, product quote.ProductType, currencyPairID string, groups quote.CustomerGroups, tenor string) (services.RateQuote, error)
	CustomerRates(ctx context.Context, product quote.ProductType, groups quote.CustomerGroups, tenor string) ([]services.RateQuote, error)
	MARRate(ctx context.Context, currencyPairID string, groups quote.CustomerGroups) (services.RateQuote, error)
	RecordMarketRate(ctx context.Context, r quote.BaseRate) (quote.BaseRate, error)
	SpreadSettings(ctx context.Context, f store.SpreadFilter) ([]quote.SpreadSetting, error)
	CreateSpreadSetting(ctx context.Context, st quote.SpreadSetting) (quote.SpreadSetting, error)
}

// SwapPointServiceInterface is the swap point surface used by
// CurrencyPairHandler
type SwapPointServiceInterface interface {
	Upload(ctx context.Context, currencyPairID string, r io.Reader, uploadedBy string) (services.UploadResult, error)
	List(ctx context.Context, currencyPairID string) ([]swappoints.Record, error)
}
