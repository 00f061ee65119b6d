package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/mock"

	"fxdesk/internal/calendar"
	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/services"
	"fxdesk/internal/store"
	"fxdesk/internal/swappoints"
)

// MockCalendarService is a mock implementation of CalendarServiceInterface
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) SpotDate(trade *civil.Date) (civil.Date, civil.Date) {
	args := m.Called(trade)
	return args.Get(0).(civil.Date), args.Get(1).(civil.Date)
}

func (m *MockCalendarService) BusinessDays(from, to civil.Date) int {
	return m.Called(from, to).Int(0)
}

func (m *MockCalendarService) AddBusinessDays(d civil.Date, n int) civil.Date {
	return m.Called(d, n).Get(0).(civil.Date)
}

func (m *MockCalendarService) Holidays(j calendar.Jurisdiction, year int) []calendar.Holiday {
	args := m.Called(j, year)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]calendar.Holiday)
}

func (m *MockCalendarService) Info() services.HolidayInfo {
	return m.Called().Get(0).(services.HolidayInfo)
}

func (m *MockCalendarService) Reload(ctx context.Context, path string) (services.HolidayInfo, error) {
	args := m.Called(path)
	return args.Get(0).(services.HolidayInfo), args.Error(1)
}

func (m *MockCalendarService) TenorDate(trade *civil.Date, tenor string) (services.TenorDate, error) {
	args := m.Called(trade, tenor)
	return args.Get(0).(services.TenorDate), args.Error(1)
}

func (m *MockCalendarService) Convert(spot civil.Date, settlement *civil.Date, days *int) (services.Conversion, error) {
	args := m.Called(spot, settlement, days)
	return args.Get(0).(services.Conversion), args.Error(1)
}

// MockPricingService is a mock implementation of PricingServiceInterface
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Calculate(ctx context.Context, in services.CalculateInput) services.Calculation {
	return m.Called(in).Get(0).(services.Calculation)
}

func (m *MockPricingService) ForwardQuote(ctx context.Context, in services.QuoteInput) (services.ForwardQuote, error) {
	args := m.Called(in)
	return args.Get(0).(services.ForwardQuote), args.Error(1)
}

func (m *MockPricingService) PairCurve(ctx context.Context, currencyPairID string) (services.PairCurve, error) {
	args := m.Called(currencyPairID)
	return args.Get(0).(services.PairCurve), args.Error(1)
}

// MockRateService is a mock implementation of RateServiceInterface
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) CustomerRate(ctx context.Context, product quote.ProductType, currencyPairID string, groups quote.CustomerGroups, tenor string) (services.RateQuote, error) {
	args := m.Called(product, currencyPairID, groups, tenor)
	return args.Get(0).(services.RateQuote), args.Error(1)
}

func (m *MockRateService) CustomerRates(ctx context.Context, product quote.ProductType, groups quote.CustomerGroups, tenor string) ([]services.RateQuote, error) {
	args := m.Called(product, groups, tenor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.RateQuote), args.Error(1)
}

func (m *MockRateService) MARRate(ctx context.Context, currencyPairID string, groups quote.CustomerGroups) (services.RateQuote, error) {
	args := m.Called(currencyPairID, groups)
	return args.Get(0).(services.RateQuote), args.Error(1)
}

func (m *MockRateService) RecordMarketRate(ctx context.Context, r quote.BaseRate) (quote.BaseRate, error) {
	args := m.Called(r)
	return args.Get(0).(quote.BaseRate), args.Error(1)
}

func (m *MockRateService) SpreadSettings(ctx context.Context, f store.SpreadFilter) ([]quote.SpreadSetting, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.SpreadSetting), args.Error(1)
}

func (m *MockRateService) CreateSpreadSetting(ctx context.Context, st quote.SpreadSetting) (quote.SpreadSetting, error) {
	args := m.Called(st)
	return args.Get(0).(quote.SpreadSetting), args.Error(1)
}

// MockSwapPointService is a mock implementation of SwapPointServiceInterface
type MockSwapPointService struct {
	mock.Mock
}

func (m *MockSwapPointService) Upload(ctx context.Context, currencyPairID string, r io.Reader, uploadedBy string) (services.UploadResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(currencyPairID, string(body), uploadedBy)
	return args.Get(0).(services.UploadResult), args.Error(1)
}

func (m *MockSwapPointService) List(ctx context.Context, currencyPairID string) ([]swappoints.Record, error) {
	args := m.Called(currencyPairID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]swappoints.Record), args.Error(1)
}

// MockPairReader is a mock implementation of services.PairReader
type MockPairReader struct {
	mock.Mock
}

func (m *MockPairReader) ListCurrencyPairs(ctx context.Context, activeOnly bool) ([]store.CurrencyPair, error) {
	args := m.Called(activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.CurrencyPair), args.Error(1)
}

func (m *MockPairReader) GetCurrencyPair(ctx context.Context, idOrSymbol string) (store.CurrencyPair, error) {
	args := m.Called(idOrSymbol)
	return args.Get(0).(store.CurrencyPair), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}

func date(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
