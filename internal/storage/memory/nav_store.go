package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// NAVStore is an in-memory implementation of storage.NAVStore.
type NAVStore struct {
	mu   sync.RWMutex
	data map[barKey]*domain.NAVPoint
}

// NewNAVStore creates a new in-memory NAV store.
func NewNAVStore() *NAVStore {
	return &NAVStore{
		data: make(map[barKey]*domain.NAVPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (ticker, date).
func (s *NAVStore) InsertBulk(_ context.Context, points []*domain.NAVPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[barKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Ticker == "" {
			return storage.ErrInvalidInput
		}
		k := barKey{p.Ticker, p.Date}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[barKey{p.Ticker, p.Date}] = &copy
	}
	return nil
}

// GetByTicker retrieves all points for a ticker, ordered by date ASC.
func (s *NAVStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.NAVPoint, error) {
	return s.GetByDateRange(ctx, ticker, time.Time{}, time.Time{})
}

// GetByDateRange retrieves points for a ticker within [start, end] (inclusive).
func (s *NAVStore) GetByDateRange(_ context.Context, ticker string, start, end time.Time) ([]*domain.NAVPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NAVPoint
	for _, p := range s.data {
		if p.Ticker != ticker {
			continue
		}
		if !start.IsZero() && p.Date.Before(start) {
			continue
		}
		if !end.IsZero() && p.Date.After(end) {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ storage.NAVStore = (*NAVStore)(nil)
