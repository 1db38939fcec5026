package memory

import (
	"context"
	"sync"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// FeeScheduleStore is an in-memory implementation of storage.FeeScheduleStore.
type FeeScheduleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeeSchedule // keyed by ticker
}

// NewFeeScheduleStore creates a new in-memory fee schedule store.
func NewFeeScheduleStore() *FeeScheduleStore {
	return &FeeScheduleStore{
		data: make(map[string]*domain.FeeSchedule),
	}
}

// Insert adds a schedule. Returns ErrDuplicateKey if the ticker exists.
func (s *FeeScheduleStore) Insert(_ context.Context, schedule *domain.FeeSchedule) error {
	if schedule == nil || schedule.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[schedule.Ticker]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *schedule
	s.data[schedule.Ticker] = &copy
	return nil
}

// GetByTicker retrieves the schedule for a ticker. Returns ErrNotFound if
// not exists.
func (s *FeeScheduleStore) GetByTicker(_ context.Context, ticker string) (*domain.FeeSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, exists := s.data[ticker]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *schedule
	return &copy, nil
}

var _ storage.FeeScheduleStore = (*FeeScheduleStore)(nil)
