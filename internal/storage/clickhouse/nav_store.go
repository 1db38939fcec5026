package clickhouse

import (
	"context"
	"fmt"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// NAVStore implements storage.NAVStore using ClickHouse.
type NAVStore struct {
	conn *Conn
}

// NewNAVStore creates a new NAVStore.
func NewNAVStore(conn *Conn) *NAVStore {
	return &NAVStore{conn: conn}
}

// Compile-time interface check.
var _ storage.NAVStore = (*NAVStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (ticker, date).
func (s *NAVStore) InsertBulk(ctx context.Context, points []*domain.NAVPoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		ticker string
		date   time.Time
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.Ticker, p.Date}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.Ticker, p.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO nav_points (ticker, trade_date, nav)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Ticker, p.Date, p.NAV); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all points for a ticker, ordered by date ASC.
func (s *NAVStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.NAVPoint, error) {
	return s.GetByDateRange(ctx, ticker, time.Time{}, time.Time{})
}

// GetByDateRange retrieves points for a ticker within [start, end] (inclusive).
func (s *NAVStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.NAVPoint, error) {
	query := `
		SELECT ticker, trade_date, nav
		FROM nav_points
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
		return nil, fmt.Errorf("query nav points: %w", err)
	}
	defer rows.Close()

	var result []*domain.NAVPoint
	for rows.Next() {
		var p domain.NAVPoint
		if err := rows.Scan(&p.Ticker, &p.Date, &p.NAV); err != nil {
			return nil, fmt.Errorf("scan nav point: %w", err)
		}
		p.Date = domain.Day(p.Date)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nav points: %w", err)
	}
	return result, nil
}

// exists checks whether a (ticker, date) row is already stored.
func (s *NAVStore) exists(ctx context.Context, ticker string, date time.Time) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM nav_points WHERE ticker = ? AND trade_date = ?
	`, ticker, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
