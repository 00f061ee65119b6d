// Package store persists the desk's reference data in SQLite: currency
// pairs, market base rates, spread settings and uploaded swap points.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"fxdesk/internal/config"
	apperrors "fxdesk/internal/errors"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA busy_timeout=5000;",
	"PRAGMA foreign_keys=ON;",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS currency_pairs (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL UNIQUE,
		base_currency TEXT NOT NULL,
		quote_currency TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS market_rates (
		id TEXT PRIMARY KEY,
		currency_pair_id TEXT NOT NULL REFERENCES currency_pairs(id),
		buy_rate REAL NOT NULL,
		sell_rate REAL NOT NULL,
		source TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_market_rates_latest
		ON market_rates (currency_pair_id, source, updated_at DESC);`,
	`CREATE TABLE IF NOT EXISTS spread_settings (
		id TEXT PRIMARY KEY,
		product_type TEXT NOT NULL,
		currency_pair_id TEXT NOT NULL REFERENCES currency_pairs(id),
		group_type TEXT NOT NULL DEFAULT '',
		group_value TEXT NOT NULL DEFAULT '',
		base_spread REAL NOT NULL,
		tenor_spreads TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS swap_points (
		id TEXT PRIMARY KEY,
		currency_pair_id TEXT NOT NULL REFERENCES currency_pairs(id),
		tenor TEXT NOT NULL DEFAULT '',
		settlement_date TEXT,
		days INTEGER,
		swap_point TEXT NOT NULL,
		source TEXT NOT NULL,
		uploaded_by TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_swap_points_pair ON swap_points (currency_pair_id);`,
}

// Store is the SQLite-backed reference store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Open opens (creating if needed) the database at cfg.DatabasePath, applies
// the schema and, when cfg.SeedDefaults is set, seeds the default pairs.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStorageError("failed to create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open sqlite", err)
	}
	// A single connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: logger.With(slog.String("component", "store")),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.SeedDefaults {
		if err := s.SeedDefaults(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "store opened", slog.String("path", cfg.DatabasePath))
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to set pragma %s", pragma), err)
		}
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStorageError("failed to apply schema", err)
		}
	}
	return nil
}

// DefaultPairs are seeded on first start.
var DefaultPairs = []CurrencyPair{
	{Symbol: "USD/KRW", BaseCurrency: "USD", QuoteCurrency: "KRW", IsActive: true},
}

// SeedDefaults inserts DefaultPairs that are not present yet.
func (s *Store) SeedDefaults(ctx context.Context) error {
	for _, p := range DefaultPairs {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO currency_pairs (id, symbol, base_currency, quote_currency, is_active)
			 VALUES (?, ?, ?, ?, ?) ON CONFLICT(symbol) DO NOTHING`,
			s.newID(), p.Symbol, p.BaseCurrency, p.QuoteCurrency, p.IsActive,
		)
		if err != nil {
			return apperrors.NewStorageError("failed to seed currency pairs", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.logger.InfoContext(ctx, "seeded currency pair", slog.String("symbol", p.Symbol))
		}
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("database unreachable", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }
