package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"fxdesk/internal/config"
	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/infrastructure"
	"fxdesk/internal/quote"
	"fxdesk/internal/store"
)

// RateService composes customer rates from the latest base rates and the
// configured spreads, and maintains those base rates and spreads.
type RateService struct {
	pairs          PairReader
	rates          MarketRateRepository
	spreads        SpreadRepository
	metrics        *infrastructure.Metrics
	rateSource     string
	defaultSpread  float64
	maxConcurrency int
	logger         *slog.Logger
}

// RateQuote is a customer rate for one pair and product.
type RateQuote struct {
	CurrencyPairID string            `json:"currencyPairId"`
	Symbol         string            `json:"symbol"`
	ProductType    quote.ProductType `json:"productType"`
	Tenor          string            `json:"tenor,omitempty"`
	quote.CustomerRate
}

// NewRateService creates a RateService.
func NewRateService(pairs PairReader, rates MarketRateRepository, spreads SpreadRepository, metrics *infrastructure.Metrics,
	market config.MarketConfig, quoteCfg config.QuoteConfig, logger *slog.Logger) *RateService {
	if logger == nil {
		logger = slog.Default()
	}
	limit := quoteCfg.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	return &RateService{
		pairs:          pairs,
		rates:          rates,
		spreads:        spreads,
		metrics:        metrics,
		rateSource:     market.RateSource,
		defaultSpread:  quoteCfg.DefaultSpreadBps,
		maxConcurrency: limit,
		logger:         logger.With(slog.String("service", "rates")),
	}
}

// CustomerRate quotes product on one pair. A pair without a base rate is a
// MissingBaseRate error.
func (s *RateService) CustomerRate(ctx context.Context, product quote.ProductType, currencyPairID string, groups quote.CustomerGroups, tenor string) (RateQuote, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, currencyPairID)
	if err != nil {
		return RateQuote{}, err
	}
	return s.rateFor(ctx, product, pair, groups, tenor)
}

func (s *RateService) rateFor(ctx context.Context, product quote.ProductType, pair store.CurrencyPair, groups quote.CustomerGroups, tenor string) (RateQuote, error) {
	out := RateQuote{
		CurrencyPairID: pair.ID,
		Symbol:         pair.Symbol,
		ProductType:    product,
		Tenor:          strings.ToUpper(strings.TrimSpace(tenor)),
	}

	spread, err := s.spreadFor(ctx, product, pair.ID, groups, tenor)
	if err != nil {
		return out, err
	}

	base, err := s.rates.LatestMarketRate(ctx, pair.ID, s.rateSource)
	if err != nil {
		return out, err
	}

	var rate quote.CustomerRate
	if product == quote.ProductMAR {
		rate, err = quote.ComposeMAR(base, spread)
	} else if base == nil {
		rate = quote.Unavailable()
		rate.Spread = spread.Bps
		err = apperrors.NewMissingBaseRateError("no base rate available for " + pair.Symbol).
			WithContext("currency_pair_id", pair.ID).
			WithContext("source", s.rateSource)
	} else {
		rate, err = quote.Compose(*base, spread)
	}

	s.metrics.RecordQuoteComposition(ctx, string(product), outcomeOf(err))
	out.CustomerRate = rate
	return out, err
}

func (s *RateService) spreadFor(ctx context.Context, product quote.ProductType, pairID string, groups quote.CustomerGroups, tenor string) (quote.Spread, error) {
	settings, err := s.spreads.ActiveSpreadSettings(ctx, product, pairID)
	if err != nil {
		return quote.Spread{}, err
	}
	bps := quote.ResolveSpreadWithDefault(settings, product, pairID, groups, tenor, s.defaultSpread)
	return quote.NewSpread(bps), nil
}

// CustomerRates quotes product on every active pair concurrently. Pairs
// without a base rate are included as unavailable with zero rates.
func (s *RateService) CustomerRates(ctx context.Context, product quote.ProductType, groups quote.CustomerGroups, tenor string) ([]RateQuote, error) {
	pairs, err := s.pairs.ListCurrencyPairs(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]RateQuote, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			rq, err := s.rateFor(gctx, product, pair, groups, tenor)
			if err != nil && !apperrors.IsType(err, apperrors.ErrTypeMissingBaseRate) {
				return fmt.Errorf("quote %s: %w", pair.Symbol, err)
			}
			out[i] = rq
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "bulk customer rates failed",
			slog.String("product", string(product)),
			slog.String("error", err.Error()))
		return nil, err
	}

	return out, nil
}

// MARRate quotes the market average rate product on one pair. With no
// base rate yet the unavailable quote is returned together with a
// MissingBaseRate error.
func (s *RateService) MARRate(ctx context.Context, currencyPairID string, groups quote.CustomerGroups) (RateQuote, error) {
	return s.CustomerRate(ctx, quote.ProductMAR, currencyPairID, groups, "")
}

// RecordMarketRate stores a base rate for a known pair. An empty source
// defaults to the configured rate source.
func (s *RateService) RecordMarketRate(ctx context.Context, r quote.BaseRate) (quote.BaseRate, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, r.CurrencyPairID)
	if err != nil {
		return quote.BaseRate{}, err
	}
	if !positiveFinite(r.BuyRate) || !positiveFinite(r.SellRate) {
		return quote.BaseRate{}, apperrors.NewAppValidationError("buyRate and sellRate must be finite and greater than 0")
	}

	r.CurrencyPairID = pair.ID
	if r.Source == "" {
		r.Source = s.rateSource
	}

	stored, err := s.rates.InsertMarketRate(ctx, r)
	if err != nil {
		return quote.BaseRate{}, err
	}

	s.logger.InfoContext(ctx, "market rate recorded",
		slog.String("symbol", pair.Symbol),
		slog.String("source", stored.Source),
		slog.Float64("buy_rate", stored.BuyRate),
		slog.Float64("sell_rate", stored.SellRate))

	return stored, nil
}

// SpreadSettings lists spread settings.
func (s *RateService) SpreadSettings(ctx context.Context, f store.SpreadFilter) ([]quote.SpreadSetting, error) {
	if f.CurrencyPairID != "" {
		pair, err := s.pairs.GetCurrencyPair(ctx, f.CurrencyPairID)
		if err != nil {
			return nil, err
		}
		f.CurrencyPairID = pair.ID
	}
	return s.spreads.ListSpreadSettings(ctx, f)
}

// CreateSpreadSetting validates and stores a spread setting. Tenor keys are
// upper-cased.
func (s *RateService) CreateSpreadSetting(ctx context.Context, st quote.SpreadSetting) (quote.SpreadSetting, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, st.CurrencyPairID)
	if err != nil {
		return quote.SpreadSetting{}, err
	}
	st.CurrencyPairID = pair.ID

	switch st.GroupType {
	case quote.GroupDefault, quote.GroupMajor, quote.GroupMid, quote.GroupSub:
	default:
		return quote.SpreadSetting{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown group type %q", st.GroupType))
	}
	if st.GroupType != quote.GroupDefault && st.GroupValue == "" {
		return quote.SpreadSetting{}, apperrors.NewAppValidationError("groupValue is required with groupType")
	}
	if math.IsNaN(st.BaseSpread) || math.IsInf(st.BaseSpread, 0) {
		return quote.SpreadSetting{}, apperrors.NewAppValidationError("baseSpread must be finite")
	}

	if len(st.TenorSpreads) > 0 {
		normalized := make(map[string]float64, len(st.TenorSpreads))
		for k, v := range st.TenorSpreads {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return quote.SpreadSetting{}, apperrors.NewAppValidationError(fmt.Sprintf("tenor spread %s must be finite", k))
			}
			normalized[strings.ToUpper(strings.TrimSpace(k))] = v
		}
		st.TenorSpreads = normalized
	}

	created, err := s.spreads.CreateSpreadSetting(ctx, st)
	if err != nil {
		return quote.SpreadSetting{}, err
	}

	s.logger.InfoContext(ctx, "spread setting created",
		slog.String("id", created.ID),
		slog.String("product", string(created.ProductType)),
		slog.String("symbol", pair.Symbol),
		slog.String("group_type", string(created.GroupType)),
		slog.Float64("base_spread", created.BaseSpread))

	return created, nil
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
