package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestMarketBarStore_InsertAndGet(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	bars := []*domain.MarketBar{
		{Ticker: "161005", Date: day(2), Close: 2.1, Volume: 2000},
		{Ticker: "161005", Date: day(1), Close: 2.0, Volume: 1000},
		{Ticker: "162411", Date: day(1), Close: 1.5, Volume: 500},
	}
	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTicker(ctx, "161005")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(result))
	}
	if !result[0].Date.Equal(day(1)) || !result[1].Date.Equal(day(2)) {
		t.Error("Bars must be ordered by date ASC")
	}
}

func TestMarketBarStore_DuplicateKey(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	bar := &domain.MarketBar{Ticker: "161005", Date: day(1), Close: 2.0}
	if err := store.InsertBulk(ctx, []*domain.MarketBar{bar}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.MarketBar{bar})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestMarketBarStore_IntraBatchDuplicateFailsWholeBatch(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.MarketBar{
		{Ticker: "161005", Date: day(1), Close: 2.0},
		{Ticker: "161005", Date: day(1), Close: 2.1},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	result, _ := store.GetByTicker(ctx, "161005")
	if len(result) != 0 {
		t.Errorf("Failed batch must insert nothing, got %d bars", len(result))
	}
}

func TestMarketBarStore_GetByDateRange(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	var bars []*domain.MarketBar
	for d := 1; d <= 5; d++ {
		bars = append(bars, &domain.MarketBar{Ticker: "161005", Date: day(d), Close: 2.0})
	}
	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByDateRange(ctx, "161005", day(2), day(4))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("Expected 3 bars in [day2, day4], got %d", len(result))
	}

	// Zero bounds mean unbounded.
	all, err := store.GetByDateRange(ctx, "161005", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected all 5 bars, got %d", len(all))
	}
}

func TestMarketBarStore_ReturnsCopies(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.MarketBar{
		{Ticker: "161005", Date: day(1), Close: 2.0},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	first, _ := store.GetByTicker(ctx, "161005")
	first[0].Close = 999

	second, _ := store.GetByTicker(ctx, "161005")
	if second[0].Close != 2.0 {
		t.Error("Mutating a result must not affect stored data")
	}
}

func TestMarketBarStore_InvalidInput(t *testing.T) {
	store := NewMarketBarStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.MarketBar{{Date: day(1)}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ticker, got %v", err)
	}
}
