package services

import (
	"context"
	"io"
	"log/slog"

	"fxdesk/internal/infrastructure"
	"fxdesk/internal/swappoints"
)

// SwapPointService ingests swap point workbooks and lists stored points.
type SwapPointService struct {
	pairs   PairReader
	repo    SwapPointRepository
	parser  *swappoints.Parser
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// UploadResult summarises a stored workbook.
type UploadResult struct {
	CurrencyPairID string              `json:"currencyPairId"`
	Symbol         string              `json:"symbol"`
	Count          int                 `json:"count"`
	Records        []swappoints.Record `json:"records"`
}

// NewSwapPointService creates a SwapPointService.
func NewSwapPointService(pairs PairReader, repo SwapPointRepository, metrics *infrastructure.Metrics, logger *slog.Logger) *SwapPointService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwapPointService{
		pairs:   pairs,
		repo:    repo,
		parser:  swappoints.NewParser(logger),
		metrics: metrics,
		logger:  logger.With(slog.String("service", "swap_points")),
	}
}

// Upload parses an xlsx workbook and stores every row for the pair in one
// transaction. Nothing is stored if any row is invalid.
func (s *SwapPointService) Upload(ctx context.Context, currencyPairID string, r io.Reader, uploadedBy string) (UploadResult, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, currencyPairID)
	if err != nil {
		return UploadResult{}, err
	}

	stored, err := s.ingest(ctx, pair.ID, r, uploadedBy)
	s.metrics.RecordSwapPointUpload(ctx, outcomeOf(err), len(stored))
	if err != nil {
		s.logger.WarnContext(ctx, "swap point upload rejected",
			slog.String("symbol", pair.Symbol),
			slog.String("uploaded_by", uploadedBy),
			slog.String("error", err.Error()))
		return UploadResult{}, err
	}

	s.logger.InfoContext(ctx, "swap points uploaded",
		slog.String("symbol", pair.Symbol),
		slog.String("uploaded_by", uploadedBy),
		slog.Int("rows", len(stored)))

	return UploadResult{
		CurrencyPairID: pair.ID,
		Symbol:         pair.Symbol,
		Count:          len(stored),
		Records:        stored,
	}, nil
}

func (s *SwapPointService) ingest(ctx context.Context, pairID string, r io.Reader, uploadedBy string) ([]swappoints.Record, error) {
	records, err := s.parser.Parse(r, pairID, uploadedBy)
	if err != nil {
		return nil, err
	}
	if err := swappoints.Validate(records); err != nil {
		return nil, err
	}
	return s.repo.InsertSwapPoints(ctx, records)
}

// List returns the stored swap points of a pair.
func (s *SwapPointService) List(ctx context.Context, currencyPairID string) ([]swappoints.Record, error) {
	pair, err := s.pairs.GetCurrencyPair(ctx, currencyPairID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSwapPoints(ctx, pair.ID)
}
