package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const insertTradeQuery = `
	INSERT INTO trade_records (
		trade_id, trade_date, action, ticker,
		shares, price, amount, fee, net_amount
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9
	)
`

// Insert adds a trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.Date, string(t.Action), t.Ticker,
		t.Shares, t.Price, t.Amount, t.Fee, t.NetAmount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.Date, string(t.Action), t.Ticker,
			t.Shares, t.Price, t.Amount, t.Fee, t.NetAmount,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectTradeColumns = `
	SELECT trade_id, trade_date, action, ticker,
		shares, price, amount, fee, net_amount
	FROM trade_records
`

// GetByTicker retrieves all trades for a ticker, ordered by date ASC.
func (s *TradeRecordStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.TradeRecord, error) {
	query := selectTradeColumns + `
		WHERE ticker = $1
		ORDER BY trade_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetAll retrieves every trade, ordered by date ASC then trade_id ASC.
func (s *TradeRecordStore) GetAll(ctx context.Context) ([]*domain.TradeRecord, error) {
	query := selectTradeColumns + `
		ORDER BY trade_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrades drains rows into trade records.
func scanTrades(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var result []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var action string
		if err := rows.Scan(
			&t.TradeID, &t.Date, &action, &t.Ticker,
			&t.Shares, &t.Price, &t.Amount, &t.Fee, &t.NetAmount,
		); err != nil {
			return nil, fmt.Errorf("scan trade record: %w", err)
		}
		t.Action = domain.Action(action)
		t.Date = domain.Day(t.Date)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade records: %w", err)
	}
	return result, nil
}
