package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	"fxdesk/internal/infrastructure"
	"fxdesk/internal/store"
)

// 2025-01-27 10:00 KST, a Monday. Spot is 2025-02-03 across Seollal.
var fixedNow = time.Date(2025, 1, 27, 1, 0, 0, 0, time.UTC)

var (
	fixedToday = civil.Date{Year: 2025, Month: time.January, Day: 27}
	fixedSpot  = civil.Date{Year: 2025, Month: time.February, Day: 3}
)

type fixture struct {
	store    *store.Store
	pair     store.CurrencyPair
	calendar *CalendarService
	pricing  *PricingService
	rates    *RateService
	swaps    *SwapPointService
	cfg      *config.Config
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := discardLogger()

	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "fxdesk.db")

	st, err := store.Open(ctx, cfg.Storage, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pair, err := st.GetCurrencyPair(ctx, "USD/KRW")
	require.NoError(t, err)

	metrics := infrastructure.NoopMetrics()

	cal, err := NewCalendarService(calendar.NewDefault(), cfg.Calendar, metrics, logger)
	require.NoError(t, err)
	cal.now = func() time.Time { return fixedNow }

	return &fixture{
		store:    st,
		pair:     pair,
		calendar: cal,
		pricing: NewPricingService(PricingDeps{
			Pairs:      st,
			Rates:      st,
			Spreads:    st,
			SwapPoints: st,
			Calendar:   cal,
			Metrics:    metrics,
		}, cfg.Market, cfg.Quote, logger),
		rates: NewRateService(st, st, st, metrics, cfg.Market, cfg.Quote, logger),
		swaps: NewSwapPointService(st, st, metrics, logger),
		cfg:   cfg,
	}
}

func datep(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}
