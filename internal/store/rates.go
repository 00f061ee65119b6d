package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
)

// InsertMarketRate records a base rate observation. An empty ID and a zero
// UpdatedAt are filled in.
func (s *Store) InsertMarketRate(ctx context.Context, r quote.BaseRate) (quote.BaseRate, error) {
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = s.now()
	}
	r.UpdatedAt = r.UpdatedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO market_rates (id, currency_pair_id, buy_rate, sell_rate, source, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.CurrencyPairID, r.BuyRate, r.SellRate, r.Source, toNanos(r.UpdatedAt),
	)
	if err != nil {
		return quote.BaseRate{}, apperrors.NewStorageError("failed to insert market rate", err)
	}
	return r, nil
}

// LatestMarketRate returns the most recent rate for the pair from source,
// or from any source when source is empty. It returns nil, nil when there
// is none.
func (s *Store) LatestMarketRate(ctx context.Context, currencyPairID, source string) (*quote.BaseRate, error) {
	query := `SELECT id, currency_pair_id, buy_rate, sell_rate, source, updated_at
		FROM market_rates WHERE currency_pair_id = ?`
	args := []interface{}{currencyPairID}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	var (
		r         quote.BaseRate
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&r.ID, &r.CurrencyPairID, &r.BuyRate, &r.SellRate, &r.Source, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query market rate", err)
	}
	r.UpdatedAt = fromNanos(updatedAt)
	return &r, nil
}
