package store

import (
	"context"
	"database/sql"

	"cloud.google.com/go/civil"

	apperrors "fxdesk/internal/errors"
	"fxdesk/internal/swappoints"
)

// ListSwapPoints returns every stored swap point for the pair.
func (s *Store) ListSwapPoints(ctx context.Context, currencyPairID string) ([]swappoints.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, currency_pair_id, tenor, settlement_date, days, swap_point,
			source, uploaded_by, created_at, updated_at
		 FROM swap_points WHERE currency_pair_id = ?
		 ORDER BY updated_at, id`,
		currencyPairID,
	)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query swap points", err)
	}
	defer rows.Close()

	records := []swappoints.Record{}
	for rows.Next() {
		var (
			rec                  swappoints.Record
			settlement           sql.NullString
			days                 sql.NullInt64
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.CurrencyPairID, &rec.Tenor, &settlement, &days, &rec.SwapPoint,
			&rec.Source, &rec.UploadedBy, &createdAt, &updatedAt); err != nil {
			return nil, apperrors.NewStorageError("failed to scan swap point", err)
		}
		if settlement.Valid {
			d, err := civil.ParseDate(settlement.String)
			if err != nil {
				return nil, apperrors.NewStorageError("corrupt settlement date for swap point "+rec.ID, err)
			}
			rec.SettlementDate = &d
		}
		if days.Valid {
			n := int(days.Int64)
			rec.Days = &n
		}
		rec.CreatedAt = fromNanos(createdAt)
		rec.UpdatedAt = fromNanos(updatedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read swap points", err)
	}
	return records, nil
}

// InsertSwapPoints stores a batch in one transaction. Either every record
// is stored or none is. Stored records are returned with their IDs.
func (s *Store) InsertSwapPoints(ctx context.Context, records []swappoints.Record) ([]swappoints.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO swap_points (id, currency_pair_id, tenor, settlement_date, days, swap_point,
			source, uploaded_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to prepare swap point insert", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	stored := make([]swappoints.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = now
		}

		var settlement, days interface{}
		if rec.SettlementDate != nil {
			settlement = rec.SettlementDate.String()
		}
		if rec.Days != nil {
			days = *rec.Days
		}

		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.CurrencyPairID, rec.Tenor, settlement, days, rec.SwapPoint.String(),
			rec.Source, rec.UploadedBy, toNanos(rec.CreatedAt), toNanos(rec.UpdatedAt),
		); err != nil {
			return nil, apperrors.NewStorageError("failed to insert swap point", err)
		}
		stored = append(stored, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStorageError("failed to commit swap points", err)
	}
	return stored, nil
}
