package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	apperrors "fxdesk/internal/errors"
)

func TestCalendarService_SpotDate(t *testing.T) {
	f := newFixture(t)

	today, spot := f.calendar.SpotDate(nil)
	assert.Equal(t, fixedToday, today)
	assert.Equal(t, fixedSpot, spot)

	trade := datep(2025, time.February, 3)
	today, spot = f.calendar.SpotDate(trade)
	assert.Equal(t, *trade, today)
	assert.Equal(t, *datep(2025, time.February, 5), spot)
}

func TestCalendarService_Today_UsesDeskZone(t *testing.T) {
	f := newFixture(t)

	// 23:30 UTC is already the next morning in Seoul.
	f.calendar.now = func() time.Time { return time.Date(2025, 1, 26, 23, 30, 0, 0, time.UTC) }
	assert.Equal(t, fixedToday, f.calendar.Today())
}

func TestCalendarService_TenorDate(t *testing.T) {
	f := newFixture(t)

	td, err := f.calendar.TenorDate(nil, "1m")
	require.NoError(t, err)
	assert.Equal(t, TenorDate{
		Tenor:          "1M",
		TradeDate:      fixedToday,
		SpotDate:       fixedSpot,
		SettlementDate: *datep(2025, time.March, 3),
		Days:           28,
	}, td)

	_, err = f.calendar.TenorDate(nil, "7Q")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestCalendarService_Convert(t *testing.T) {
	f := newFixture(t)
	days := 30

	tests := []struct {
		name       string
		settlement bool
		days       *int
		want       Conversion
		errType    apperrors.ErrorType
	}{
		{
			name:       "settlement to days",
			settlement: true,
			want:       Conversion{SpotDate: fixedSpot, SettlementDate: *datep(2025, time.March, 5), Days: 30},
		},
		{
			name: "days to settlement",
			days: &days,
			want: Conversion{SpotDate: fixedSpot, SettlementDate: *datep(2025, time.March, 5), Days: 30},
		},
		{
			name:       "both given",
			settlement: true,
			days:       &days,
			errType:    apperrors.ErrTypeValidation,
		},
		{
			name:    "neither given",
			errType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var settlement = datep(2025, time.March, 5)
			if !tt.settlement {
				settlement = nil
			}

			got, err := f.calendar.Convert(fixedSpot, settlement, tt.days)
			if tt.errType != "" {
				assert.True(t, apperrors.IsType(err, tt.errType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalendarService_Reload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: desk-2025
kr:
  - date: "2025-01-28"
  - date: "2025-01-29"
us: []
`), 0o600))

	info, err := f.calendar.Reload(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, HolidayInfo{Version: "desk-2025", KR: 2, US: 0}, info)

	_, spot := f.calendar.SpotDate(nil)
	assert.Equal(t, *datep(2025, time.January, 31), spot)

	// Without a path or a configured file the embedded tables come back.
	info, err = f.calendar.Reload(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "embedded", info.Version)
}

func TestCalendarService_Reload_BadFileKeepsTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.calendar.Info()

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kr:\n  - date: \"2025-13-01\"\n"), 0o600))

	info, err := f.calendar.Reload(ctx, path)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Equal(t, before, info)

	_, err = f.calendar.Reload(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Equal(t, before, f.calendar.Info())
}

func TestNewCalendarService_Errors(t *testing.T) {
	_, err := NewCalendarService(calendar.NewDefault(), config.CalendarConfig{Timezone: "Mars/Olympus"}, nil, discardLogger())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	_, err = NewCalendarService(calendar.NewDefault(), config.CalendarConfig{
		HolidaysFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}, nil, discardLogger())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestCalendarService_Holidays(t *testing.T) {
	f := newFixture(t)

	kr := f.calendar.Holidays(calendar.KR, 2025)
	require.NotEmpty(t, kr)
	for _, h := range kr {
		assert.Equal(t, 2025, h.Date.Year)
	}
	assert.Equal(t, 2, f.calendar.BusinessDays(fixedToday, fixedSpot))
	assert.Equal(t, fixedSpot, f.calendar.AddBusinessDays(fixedToday, 2))
}
