// Package forward prices an FX forward for an arbitrary settlement date from
// a spot rate and a swap-point curve.
//
// The forward rate is spotRate + swapPoint/100. Failures are reported inside
// the Result rather than as a Go error so that callers can render them to
// users alongside the diagnostics.
package forward

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"cloud.google.com/go/civil"

	"fxdesk/internal/calendar"
	"fxdesk/internal/curve"
	apperrors "fxdesk/internal/errors"
)

// PipDivisor converts swap points to rate units.
const PipDivisor = 100.0

// SpotTenor labels the bracket of a settlement on spot.
const SpotTenor = "Spot"

// Result is a priced forward or the reason it could not be priced.
type Result struct {
	TargetDays            int                 `json:"targetDays"`
	InterpolatedSwapPoint float64             `json:"interpolatedSwapPoint"`
	ForwardRate           float64             `json:"forwardRate"`
	Bracket               *curve.Bracket      `json:"bracket,omitempty"`
	Error                 string              `json:"error,omitempty"`
	ErrorType             apperrors.ErrorType `json:"errorType,omitempty"`
}

// OK reports whether the result carries a price.
func (r Result) OK() bool {
	return r.Error == ""
}

// Err returns the failure as an *errors.AppError, or nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return apperrors.NewAppError(r.ErrorType, r.Error, nil)
}

// Recorder receives one outcome per calculation. An empty outcome is success.
type Recorder interface {
	RecordForwardCalculation(ctx context.Context, outcome string)
}

// Calculator prices forwards. The zero value is not usable; use New.
type Calculator struct {
	logger   *slog.Logger
	recorder Recorder
}

// New creates a Calculator. Both arguments may be nil.
func New(logger *slog.Logger, recorder Recorder) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		logger:   logger.With(slog.String("component", "forward_calculator")),
		recorder: recorder,
	}
}

// Calculate prices targetDays from spot. The checks run in order: settlement
// before spot, non-finite spot rate, settlement on spot, negative days, then
// interpolation.
func (c *Calculator) Calculate(ctx context.Context, targetDays int, spotRate float64, points []curve.TenorPoint, spotDate, settlementDate civil.Date) Result {
	res := c.calculate(targetDays, spotRate, points, spotDate, settlementDate)

	if c.recorder != nil {
		c.recorder.RecordForwardCalculation(ctx, string(res.ErrorType))
	}

	if !res.OK() {
		c.logger.DebugContext(ctx, "forward not priced",
			slog.String("error_type", string(res.ErrorType)),
			slog.String("error", res.Error),
			slog.Int("target_days", targetDays),
			slog.String("spot_date", spotDate.String()),
			slog.String("settlement_date", settlementDate.String()))
	}

	return res
}

// CalculateForDate derives targetDays from the two dates and calls Calculate.
func (c *Calculator) CalculateForDate(ctx context.Context, spotRate float64, points []curve.TenorPoint, spotDate, settlementDate civil.Date) Result {
	return c.Calculate(ctx, calendar.DaysFromSpot(spotDate, settlementDate), spotRate, points, spotDate, settlementDate)
}

func (c *Calculator) calculate(targetDays int, spotRate float64, points []curve.TenorPoint, spotDate, settlementDate civil.Date) Result {
	res := Result{TargetDays: targetDays}

	if settlementDate.Before(spotDate) {
		return fail(res, apperrors.ErrTypeInvalidSettlement, "settlement before spot")
	}

	// Sign is a request concern; only non-finite rates are refused here.
	if math.IsNaN(spotRate) || math.IsInf(spotRate, 0) {
		return fail(res, apperrors.ErrTypeValidation, "spot rate must be a finite number")
	}

	if targetDays == 0 {
		spot := curve.TenorPoint{Tenor: SpotTenor}
		res.ForwardRate = spotRate
		res.Bracket = &curve.Bracket{Lower: spot, Upper: spot}
		return res
	}

	if targetDays < 0 {
		return fail(res, apperrors.ErrTypeUnpriceableDate, "date before spot not priceable")
	}

	interp, err := curve.Interpolate(points, targetDays)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return fail(res, appErr.Type, appErr.Message)
		}
		return fail(res, apperrors.ErrTypeValidation, err.Error())
	}

	res.InterpolatedSwapPoint = interp.SwapPoint
	res.ForwardRate = spotRate + interp.SwapPoint/PipDivisor
	res.Bracket = &interp.Bracket
	return res
}

func fail(res Result, errType apperrors.ErrorType, msg string) Result {
	res.ForwardRate = 0
	res.InterpolatedSwapPoint = 0
	res.Bracket = nil
	res.Error = msg
	res.ErrorType = errType
	return res
}
