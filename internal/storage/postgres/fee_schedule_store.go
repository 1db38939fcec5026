package postgres

import (
	"context"
	"fmt"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// FeeScheduleStore implements storage.FeeScheduleStore using PostgreSQL.
type FeeScheduleStore struct {
	pool *Pool
}

// NewFeeScheduleStore creates a new FeeScheduleStore.
func NewFeeScheduleStore(pool *Pool) *FeeScheduleStore {
	return &FeeScheduleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeeScheduleStore = (*FeeScheduleStore)(nil)

// Insert adds a schedule. Returns ErrDuplicateKey if the ticker exists.
func (s *FeeScheduleStore) Insert(ctx context.Context, schedule *domain.FeeSchedule) error {
	query := `
		INSERT INTO fund_fees (
			ticker, rate_tier_1, limit_1, rate_tier_2, limit_2, fee_fixed, redeem_fee_7d
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		schedule.Ticker, schedule.Rate1, schedule.Limit1,
		schedule.Rate2, schedule.Limit2, schedule.FixedFee, schedule.RedeemFee7d,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fee schedule: %w", err)
	}
	return nil
}

// GetByTicker retrieves the schedule for a ticker. Returns ErrNotFound if
// not exists.
func (s *FeeScheduleStore) GetByTicker(ctx context.Context, ticker string) (*domain.FeeSchedule, error) {
	query := `
		SELECT ticker, rate_tier_1, limit_1, rate_tier_2, limit_2, fee_fixed, redeem_fee_7d
		FROM fund_fees
		WHERE ticker = $1
	`

	var schedule domain.FeeSchedule
	err := s.pool.QueryRow(ctx, query, ticker).Scan(
		&schedule.Ticker, &schedule.Rate1, &schedule.Limit1,
		&schedule.Rate2, &schedule.Limit2, &schedule.FixedFee, &schedule.RedeemFee7d,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get fee schedule: %w", err)
	}
	return &schedule, nil
}
