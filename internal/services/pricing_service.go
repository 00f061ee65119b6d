package services

import (
	"context"
	"log/slog"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/singleflight"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	"fxdesk/internal/curve"
	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/forward"
	"fxdesk/internal/infrastructure"
	"fxdesk/internal/quote"
	"fxdesk/internal/swappoints"
)

// PricingService prices forwards, either from caller-supplied curves or
// from the swap points and base rates in the store.
type PricingService struct {
	pairs         PairReader
	rates         MarketRateRepository
	spreads       SpreadRepository
	swapPoints    SwapPointRepository
	calendar      *CalendarService
	calc          *forward.Calculator
	metrics       *infrastructure.Metrics
	rateSource    string
	defaultSpread float64
	logger        *slog.Logger

	curves singleflight.Group
}

// PricingDeps groups PricingService collaborators.
type PricingDeps struct {
	Pairs      PairReader
	Rates      MarketRateRepository
	Spreads    SpreadRepository
	SwapPoints SwapPointRepository
	Calendar   *CalendarService
	Metrics    *infrastructure.Metrics
}

// CalculateInput is a forward priced against an explicit curve. SpotDate
// wins over TradeDate; with neither, spot is computed from today.
type CalculateInput struct {
	SpotRate       float64
	Points         []curve.TenorPoint
	SpotDate       *civil.Date
	TradeDate      *civil.Date
	SettlementDate civil.Date
}

// Calculation is a priced forward with the dates it was priced on.
type Calculation struct {
	SpotDate       civil.Date `json:"spotDate"`
	SettlementDate civil.Date `json:"settlementDate"`
	SpotRate       float64    `json:"spotRate"`
	forward.Result
}

// QuoteInput requests a store-backed forward quote. Either SettlementDate
// or Tenor locates the forward. SpotRate overrides the latest base rate mid.
type QuoteInput struct {
	CurrencyPairID string
	SettlementDate *civil.Date
	Tenor          string
	SpotRate       *float64
	Groups         quote.CustomerGroups
}

// ForwardQuote is a store-backed forward and, when a base rate exists, the
// customer's forward buy/sell rates.
type ForwardQuote struct {
	CurrencyPairID string                     `json:"currencyPairId"`
	Symbol         string                     `json:"symbol"`
	Tenor          string                     `json:"tenor,omitempty"`
	TradeDate      civil.Date                 `json:"tradeDate"`
	SpotDate       civil.Date                 `json:"spotDate"`
	SettlementDate civil.Date                 `json:"settlementDate"`
	SpotRate       float64                    `json:"spotRate"`
	CurvePoints    int                        `json:"curvePoints"`
	Result         forward.Result             `json:"result"`
	Customer       *quote.CustomerRate        `json:"customer,omitempty"`
	Dropped        []swappoints.DroppedRecord `json:"dropped,omitempty"`
}

// NewPricingService creates a PricingService.
func NewPricingService(deps PricingDeps, market config.MarketConfig, quoteCfg config.QuoteConfig, logger *slog.Logger) *PricingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingService{
		pairs:         deps.Pairs,
		rates:         deps.Rates,
		spreads:       deps.Spreads,
		swapPoints:    deps.SwapPoints,
		calendar:      deps.Calendar,
		calc:          forward.New(logger, deps.Metrics),
		metrics:       deps.Metrics,
		rateSource:    market.RateSource,
		defaultSpread: quoteCfg.DefaultSpreadBps,
		logger:        logger.With(slog.String("service", "pricing")),
	}
}

// Calculate prices a forward against the supplied curve. Pricing failures
// are carried in the result.
func (s *PricingService) Calculate(ctx context.Context, in CalculateInput) Calculation {
	spot := s.spotFor(in.SpotDate, in.TradeDate)
	res := s.calc.CalculateForDate(ctx, in.SpotRate, in.Points, spot, in.SettlementDate)
	return Calculation{
		SpotDate:       spot,
		SettlementDate: in.SettlementDate,
		SpotRate:       in.SpotRate,
		Result:         res,
	}
}

func (s *PricingService) spotFor(spotDate, tradeDate *civil.Date) civil.Date {
	if spotDate != nil {
		return *spotDate
	}
	_, spot := s.calendar.SpotDate(tradeDate)
	return spot
}

// Curve builds the pair's forward curve for trades made today. Concurrent
// requests for the same pair and day share one store read, which is detached
// from the cancellation of whichever caller started it.
func (s *PricingService) Curve(ctx context.Context, currencyPairID string, today civil.Date) (swappoints.CurveResult, error) {
	key := currencyPairID + "|" + today.String()
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.curves.Do(key, func() (interface{}, error) {
		records, err := s.swapPoints.ListSwapPoints(flightCtx, currencyPairID)
		if err != nil {
			return nil, err
		}
		cal := s.calendar.Calendar()
		return swappoints.BuildCurve(cal, today, cal.SpotDate(today), records), nil
	})
	if err != nil {
		return swappoints.CurveResult{}, err
	}

	res := v.(swappoints.CurveResult)
	s.logger.DebugContext(ctx, "curve built",
		slog.String("currency_pair_id", currencyPairID),
		slog.Int("points", len(res.Points)),
		slog.Int("dropped", len(res.Dropped)),
		slog.Bool("shared", shared))
	return res, nil
}

// PairCurve is the current forward curve of a stored pair.
type PairCurve struct {
	CurrencyPairID string     `json:"currencyPairId"`
	Symbol         string     `json:"symbol"`
	TradeDate      civil.Date `json:"tradeDate"`
	swappoints.CurveResult
}

// PairCurve resolves a pair by ID or symbol and builds its curve for today.
func (s *PricingService) PairCurve(ctx context.Context, currencyPairID string) (PairCurve, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, currencyPairID)
	if err != nil {
		return PairCurve{}, err
	}
	today := s.calendar.Today()
	res, err := s.Curve(ctx, pair.ID, today)
	if err != nil {
		return PairCurve{}, err
	}
	return PairCurve{CurrencyPairID: pair.ID, Symbol: pair.Symbol, TradeDate: today, CurveResult: res}, nil
}

// ForwardQuote prices a forward for a stored pair from its stored curve.
func (s *PricingService) ForwardQuote(ctx context.Context, in QuoteInput) (ForwardQuote, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, in.CurrencyPairID)
	if err != nil {
		return ForwardQuote{}, err
	}

	today, spot := s.calendar.SpotDate(nil)
	out := ForwardQuote{
		CurrencyPairID: pair.ID,
		Symbol:         pair.Symbol,
		TradeDate:      today,
		SpotDate:       spot,
	}

	switch {
	case in.SettlementDate != nil:
		out.SettlementDate = *in.SettlementDate
		if in.Tenor != "" {
			t, err := calendar.ParseTenor(in.Tenor)
			if err != nil {
				return out, err
			}
			out.Tenor = t.Label
		}
	case in.Tenor != "":
		td, err := s.calendar.TenorDate(&today, in.Tenor)
		if err != nil {
			return out, err
		}
		out.Tenor = td.Tenor
		out.SettlementDate = td.SettlementDate
	default:
		return out, apperrors.NewAppValidationError("settlementDate or tenor is required")
	}

	base, err := s.rates.LatestMarketRate(ctx, pair.ID, s.rateSource)
	if err != nil {
		return out, err
	}

	switch {
	case in.SpotRate != nil:
		out.SpotRate = *in.SpotRate
	case base != nil:
		out.SpotRate = base.Mid()
	default:
		return out, apperrors.NewMissingBaseRateError("no base rate available for " + pair.Symbol).
			WithContext("currency_pair_id", pair.ID).
			WithContext("source", s.rateSource)
	}

	crv, err := s.Curve(ctx, pair.ID, today)
	if err != nil {
		return out, err
	}
	out.CurvePoints = len(crv.Points)
	out.Dropped = crv.Dropped

	out.Result = s.calc.CalculateForDate(ctx, out.SpotRate, crv.Points, spot, out.SettlementDate)
	if !out.Result.OK() {
		return out, out.Result.Err()
	}

	if base == nil {
		return out, nil
	}

	settings, err := s.spreads.ActiveSpreadSettings(ctx, quote.ProductForward, pair.ID)
	if err != nil {
		return out, err
	}
	bps := quote.ResolveSpreadWithDefault(settings, quote.ProductForward, pair.ID, in.Groups, out.Tenor, s.defaultSpread)

	customer, err := quote.Compose(base.Shift(out.Result.InterpolatedSwapPoint/forward.PipDivisor), quote.NewSpread(bps))
	s.metrics.RecordQuoteComposition(ctx, string(quote.ProductForward), outcomeOf(err))
	if err != nil {
		return out, err
	}
	out.Customer = &customer

	s.logger.InfoContext(ctx, "forward quoted",
		slog.String("symbol", pair.Symbol),
		slog.String("settlement_date", out.SettlementDate.String()),
		slog.Float64("forward_rate", out.Result.ForwardRate),
		slog.Float64("spread_bps", bps))

	return out, nil
}
