package memory

import (
	"context"
	"sort"
	"sync"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// LimitEventStore is an in-memory implementation of storage.LimitEventStore.
type LimitEventStore struct {
	mu     sync.RWMutex
	data   []*domain.LimitEvent
	nextID int64
}

// NewLimitEventStore creates a new in-memory limit event store.
func NewLimitEventStore() *LimitEventStore {
	return &LimitEventStore{nextID: 1}
}

// Insert adds a limit event and assigns its ID.
func (s *LimitEventStore) Insert(_ context.Context, event *domain.LimitEvent) error {
	if event == nil || event.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *event
	copy.ID = s.nextID
	s.nextID++
	if event.EndDate != nil {
		end := *event.EndDate
		copy.EndDate = &end
	}
	s.data = append(s.data, &copy)
	event.ID = copy.ID
	return nil
}

// GetByTicker retrieves all events for a ticker, ordered by start date ASC.
func (s *LimitEventStore) GetByTicker(_ context.Context, ticker string) ([]*domain.LimitEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LimitEvent
	for _, e := range s.data {
		if e.Ticker != ticker {
			continue
		}
		copy := *e
		if e.EndDate != nil {
			end := *e.EndDate
			copy.EndDate = &end
		}
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

var _ storage.LimitEventStore = (*LimitEventStore)(nil)
