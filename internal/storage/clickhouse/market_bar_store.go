package clickhouse

import (
	"context"
	"fmt"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// MarketBarStore implements storage.MarketBarStore using ClickHouse.
type MarketBarStore struct {
	conn *Conn
}

// NewMarketBarStore creates a new MarketBarStore.
func NewMarketBarStore(conn *Conn) *MarketBarStore {
	return &MarketBarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MarketBarStore = (*MarketBarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, date).
func (s *MarketBarStore) InsertBulk(ctx context.Context, bars []*domain.MarketBar) error {
	if len(bars) == 0 {
		return nil
	}

	type key struct {
		ticker string
		date   time.Time
	}
	seen := make(map[key]struct{})
	for _, b := range bars {
		k := key{b.Ticker, b.Date}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness; check existing rows explicitly.
	for _, b := range bars {
		exists, err := s.exists(ctx, b.Ticker, b.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_bars (
			ticker, trade_date, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Ticker, b.Date,
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *MarketBarStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.MarketBar, error) {
	return s.GetByDateRange(ctx, ticker, time.Time{}, time.Time{})
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *MarketBarStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.MarketBar, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM market_bars
		WHERE ticker = ?
	`
	args := []any{ticker}
	if !start.IsZero() {
		query += " AND trade_date >= ?"
		args = append(args, start)
	}
	if !end.IsZero() {
		query += " AND trade_date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY trade_date ASC"

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query market bars: %w", err)
	}
	defer rows.Close()

	var result []*domain.MarketBar
	for rows.Next() {
		var b domain.MarketBar
		if err := rows.Scan(
			&b.Ticker, &b.Date,
			&b.Open, &b.High, &b.Low, &b.Close, &b.Volume,
		); err != nil {
			return nil, fmt.Errorf("scan market bar: %w", err)
		}
		b.Date = domain.Day(b.Date)
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market bars: %w", err)
	}
	return result, nil
}

// exists checks whether a (ticker, date) row is already stored.
func (s *MarketBarStore) exists(ctx context.Context, ticker string, date time.Time) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM market_bars WHERE ticker = ? AND trade_date = ?
	`, ticker, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
