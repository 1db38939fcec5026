package postgres

import (
	"context"
	"fmt"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// LimitEventStore implements storage.LimitEventStore using PostgreSQL.
type LimitEventStore struct {
	pool *Pool
}

// NewLimitEventStore creates a new LimitEventStore.
func NewLimitEventStore(pool *Pool) *LimitEventStore {
	return &LimitEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LimitEventStore = (*LimitEventStore)(nil)

// Insert adds a limit event and assigns its ID. A NULL end_date marks an
// open-ended limit.
func (s *LimitEventStore) Insert(ctx context.Context, event *domain.LimitEvent) error {
	query := `
		INSERT INTO limit_events (ticker, start_date, end_date, max_amount, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		event.Ticker, event.StartDate, event.EndDate, event.MaxAmount, event.Reason,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("insert limit event: %w", err)
	}
	return nil
}

// GetByTicker retrieves all events for a ticker, ordered by start date ASC.
func (s *LimitEventStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.LimitEvent, error) {
	query := `
		SELECT id, ticker, start_date, end_date, max_amount, COALESCE(reason, '')
		FROM limit_events
		WHERE ticker = $1
		ORDER BY start_date ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query limit events: %w", err)
	}
	defer rows.Close()

	var result []*domain.LimitEvent
	for rows.Next() {
		var e domain.LimitEvent
		var end *time.Time
		if err := rows.Scan(&e.ID, &e.Ticker, &e.StartDate, &end, &e.MaxAmount, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan limit event: %w", err)
		}
		e.StartDate = domain.Day(e.StartDate)
		if end != nil {
			d := domain.Day(*end)
			e.EndDate = &d
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate limit events: %w", err)
	}
	return result, nil
}
