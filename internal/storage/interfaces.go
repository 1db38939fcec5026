package storage

import (
	"context"
	"time"

	"lof-arb-lab/internal/domain"
)

// MarketBarStore provides access to market_bars storage.
type MarketBarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, date).
	InsertBulk(ctx context.Context, bars []*domain.MarketBar) error

	// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.MarketBar, error)

	// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
	// Zero start/end mean unbounded on that side.
	GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.MarketBar, error)
}

// NAVStore provides access to nav_points storage.
type NAVStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (ticker, date).
	InsertBulk(ctx context.Context, points []*domain.NAVPoint) error

	// GetByTicker retrieves all points for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.NAVPoint, error)

	// GetByDateRange retrieves points for a ticker within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.NAVPoint, error)
}

// FeeScheduleStore provides access to fund_fees storage.
type FeeScheduleStore interface {
	// Insert adds a schedule. Returns ErrDuplicateKey if the ticker exists.
	Insert(ctx context.Context, schedule *domain.FeeSchedule) error

	// GetByTicker retrieves the schedule for a ticker. Returns ErrNotFound
	// if not exists.
	GetByTicker(ctx context.Context, ticker string) (*domain.FeeSchedule, error)
}

// LimitEventStore provides access to limit_events storage: purchase-limit
// periods the loader resamples into per-day subscription caps.
type LimitEventStore interface {
	// Insert adds a limit event and assigns its ID.
	Insert(ctx context.Context, event *domain.LimitEvent) error

	// GetByTicker retrieves all events for a ticker, ordered by start date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.LimitEvent, error)
}

// TradeRecordStore provides access to trade_records storage.
type TradeRecordStore interface {
	// Insert adds a trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, trade *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByTicker retrieves all trades for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.TradeRecord, error)

	// GetAll retrieves every trade, ordered by date ASC then trade_id ASC.
	GetAll(ctx context.Context) ([]*domain.TradeRecord, error)
}

// EquityCurveStore provides access to equity_curve storage: one snapshot
// per simulated day.
type EquityCurveStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate date.
	InsertBulk(ctx context.Context, snapshots []*domain.DailySnapshot) error

	// GetAll retrieves every snapshot, ordered by date ASC.
	GetAll(ctx context.Context) ([]*domain.DailySnapshot, error)
}
