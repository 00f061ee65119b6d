package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "fxdesk/internal/errors"
)

// CurrencyPair is a tradable pair such as USD/KRW.
type CurrencyPair struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
	IsActive      bool   `json:"isActive"`
}

const pairColumns = `id, symbol, base_currency, quote_currency, is_active`

// ListCurrencyPairs returns pairs ordered by symbol.
func (s *Store) ListCurrencyPairs(ctx context.Context, activeOnly bool) ([]CurrencyPair, error) {
	query := `SELECT ` + pairColumns + ` FROM currency_pairs`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY symbol`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query currency pairs", err)
	}
	defer rows.Close()

	pairs := []CurrencyPair{}
	for rows.Next() {
		var p CurrencyPair
		if err := rows.Scan(&p.ID, &p.Symbol, &p.BaseCurrency, &p.QuoteCurrency, &p.IsActive); err != nil {
			return nil, apperrors.NewStorageError("failed to scan currency pair", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read currency pairs", err)
	}
	return pairs, nil
}

// GetCurrencyPair looks a pair up by ID, falling back to its symbol
// ("USD/KRW" or "USDKRW").
func (s *Store) GetCurrencyPair(ctx context.Context, idOrSymbol string) (CurrencyPair, error) {
	symbol := strings.ToUpper(strings.TrimSpace(idOrSymbol))
	if len(symbol) == 6 && !strings.Contains(symbol, "/") {
		symbol = symbol[:3] + "/" + symbol[3:]
	}

	var p CurrencyPair
	err := s.db.QueryRowContext(ctx,
		`SELECT `+pairColumns+` FROM currency_pairs WHERE id = ? OR symbol = ? LIMIT 1`,
		idOrSymbol, symbol,
	).Scan(&p.ID, &p.Symbol, &p.BaseCurrency, &p.QuoteCurrency, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return CurrencyPair{}, apperrors.NewCurrencyPairNotFoundError(idOrSymbol)
	}
	if err != nil {
		return CurrencyPair{}, apperrors.NewStorageError("failed to query currency pair", err)
	}
	return p, nil
}

// CreateCurrencyPair stores a new pair and returns it with its ID.
func (s *Store) CreateCurrencyPair(ctx context.Context, p CurrencyPair) (CurrencyPair, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	p.Symbol = strings.ToUpper(p.Symbol)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO currency_pairs (`+pairColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Symbol, p.BaseCurrency, p.QuoteCurrency, p.IsActive,
	)
	if err != nil {
		return CurrencyPair{}, apperrors.NewStorageError("failed to insert currency pair", err)
	}
	return p, nil
}
