package clickhouse

import (
	"context"
	"fmt"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using ClickHouse.
type EquityCurveStore struct {
	conn *Conn
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	return &EquityCurveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate date.
func (s *EquityCurveStore) InsertBulk(ctx context.Context, snapshots []*domain.DailySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	seen := make(map[time.Time]struct{})
	for _, snap := range snapshots {
		if _, exists := seen[snap.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[snap.Date] = struct{}{}
	}

	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (trade_date, total_equity, cash, positions_value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(snap.Date, snap.TotalEquity, snap.Cash, snap.PositionsValue)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every snapshot, ordered by date ASC.
func (s *EquityCurveStore) GetAll(ctx context.Context) ([]*domain.DailySnapshot, error) {
	query := `
		SELECT trade_date, total_equity, cash, positions_value
		FROM equity_curve
		ORDER BY trade_date ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query equity curve: %w", err)
	}
	defer rows.Close()

	var result []*domain.DailySnapshot
	for rows.Next() {
		var snap domain.DailySnapshot
		if err := rows.Scan(&snap.Date, &snap.TotalEquity, &snap.Cash, &snap.PositionsValue); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Date = domain.Day(snap.Date)
		result = append(result, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity curve: %w", err)
	}
	return result, nil
}

// exists checks whether a snapshot for the date is already stored.
func (s *EquityCurveStore) exists(ctx context.Context, date time.Time) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM equity_curve WHERE trade_date = ?
	`, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
