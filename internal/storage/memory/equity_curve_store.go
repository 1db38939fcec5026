package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[time.Time]*domain.DailySnapshot // keyed by date
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[time.Time]*domain.DailySnapshot),
	}
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate date.
func (s *EquityCurveStore) InsertBulk(_ context.Context, snapshots []*domain.DailySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[time.Time]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[snap.Date]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[snap.Date]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[snap.Date] = struct{}{}
	}

	for _, snap := range snapshots {
		copy := *snap
		s.data[snap.Date] = &copy
	}
	return nil
}

// GetAll retrieves every snapshot, ordered by date ASC.
func (s *EquityCurveStore) GetAll(_ context.Context) ([]*domain.DailySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.DailySnapshot, 0, len(s.data))
	for _, snap := range s.data {
		copy := *snap
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
