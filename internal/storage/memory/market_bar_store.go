// Package memory provides in-memory storage implementations for tests and
// the --use-memory mode of the binaries.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// barKey identifies one (ticker, date) row.
type barKey struct {
	ticker string
	date   time.Time
}

// MarketBarStore is an in-memory implementation of storage.MarketBarStore.
type MarketBarStore struct {
	mu   sync.RWMutex
	data map[barKey]*domain.MarketBar
}

// NewMarketBarStore creates a new in-memory market bar store.
func NewMarketBarStore() *MarketBarStore {
	return &MarketBarStore{
		data: make(map[barKey]*domain.MarketBar),
	}
}

// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, date).
func (s *MarketBarStore) InsertBulk(_ context.Context, bars []*domain.MarketBar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		if b == nil || b.Ticker == "" {
			return storage.ErrInvalidInput
		}
		k := barKey{b.Ticker, b.Date}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range bars {
		copy := *b
		s.data[barKey{b.Ticker, b.Date}] = &copy
	}
	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *MarketBarStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.MarketBar, error) {
	return s.GetByDateRange(ctx, ticker, time.Time{}, time.Time{})
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *MarketBarStore) GetByDateRange(_ context.Context, ticker string, start, end time.Time) ([]*domain.MarketBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketBar
	for _, b := range s.data {
		if b.Ticker != ticker {
			continue
		}
		if !start.IsZero() && b.Date.Before(start) {
			continue
		}
		if !end.IsZero() && b.Date.After(end) {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ storage.MarketBarStore = (*MarketBarStore)(nil)
