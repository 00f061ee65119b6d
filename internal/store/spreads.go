package store

import (
	"context"
	"database/sql"
	"encoding/json"

	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
)

const spreadColumns = `id, product_type, currency_pair_id, group_type, group_value,
	base_spread, tenor_spreads, is_active, created_at, updated_at`

// SpreadFilter narrows ListSpreadSettings. Zero fields match everything.
type SpreadFilter struct {
	ProductType    quote.ProductType
	CurrencyPairID string
	ActiveOnly     bool
}

// ListSpreadSettings returns settings matching f, oldest first.
func (s *Store) ListSpreadSettings(ctx context.Context, f SpreadFilter) ([]quote.SpreadSetting, error) {
	query := `SELECT ` + spreadColumns + ` FROM spread_settings WHERE 1 = 1`
	var args []interface{}
	if f.ProductType != "" {
		query += ` AND product_type = ?`
		args = append(args, string(f.ProductType))
	}
	if f.CurrencyPairID != "" {
		query += ` AND currency_pair_id = ?`
		args = append(args, f.CurrencyPairID)
	}
	if f.ActiveOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query spread settings", err)
	}
	defer rows.Close()

	settings := []quote.SpreadSetting{}
	for rows.Next() {
		var (
			st                   quote.SpreadSetting
			product, group       string
			tenorSpreads         sql.NullString
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&st.ID, &product, &st.CurrencyPairID, &group, &st.GroupValue,
			&st.BaseSpread, &tenorSpreads, &st.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, apperrors.NewStorageError("failed to scan spread setting", err)
		}
		st.ProductType = quote.ProductType(product)
		st.GroupType = quote.GroupType(group)
		st.CreatedAt = fromNanos(createdAt)
		st.UpdatedAt = fromNanos(updatedAt)
		if tenorSpreads.Valid && tenorSpreads.String != "" {
			if err := json.Unmarshal([]byte(tenorSpreads.String), &st.TenorSpreads); err != nil {
				return nil, apperrors.NewStorageError("corrupt tenor spreads for setting "+st.ID, err)
			}
		}
		settings = append(settings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read spread settings", err)
	}
	return settings, nil
}

// ActiveSpreadSettings returns the active settings for a product and pair.
func (s *Store) ActiveSpreadSettings(ctx context.Context, product quote.ProductType, currencyPairID string) ([]quote.SpreadSetting, error) {
	return s.ListSpreadSettings(ctx, SpreadFilter{
		ProductType:    product,
		CurrencyPairID: currencyPairID,
		ActiveOnly:     true,
	})
}

// CreateSpreadSetting stores a new setting and returns it with its ID and
// timestamps.
func (s *Store) CreateSpreadSetting(ctx context.Context, st quote.SpreadSetting) (quote.SpreadSetting, error) {
	if st.ID == "" {
		st.ID = s.newID()
	}
	now := s.now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now

	var tenorSpreads interface{}
	if len(st.TenorSpreads) > 0 {
		raw, err := json.Marshal(st.TenorSpreads)
		if err != nil {
			return quote.SpreadSetting{}, apperrors.NewStorageError("failed to encode tenor spreads", err)
		}
		tenorSpreads = string(raw)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO spread_settings (`+spreadColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, string(st.ProductType), st.CurrencyPairID, string(st.GroupType), st.GroupValue,
		st.BaseSpread, tenorSpreads, st.IsActive, toNanos(st.CreatedAt), toNanos(st.UpdatedAt),
	)
	if err != nil {
		return quote.SpreadSetting{}, apperrors.NewStorageError("failed to insert spread setting", err)
	}
	return st, nil
}
