package memory

import (
	"context"
	"errors"
	"testing"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

func TestTradeRecordStore_InsertAndGet(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	trade := &domain.TradeRecord{
		TradeID: "t1", Date: day(1), Action: domain.ActionBuy, Ticker: "161005",
		Shares: 49_250, Price: 2.0, Amount: 100_000, Fee: 1500, NetAmount: 98_500,
	}
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByTicker(ctx, "161005")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result))
	}
	if result[0].Amount != 100_000 {
		t.Errorf("Amount mismatch: got %f", result[0].Amount)
	}
}

func TestTradeRecordStore_DuplicateKey(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	trade := &domain.TradeRecord{TradeID: "t1", Date: day(1), Action: domain.ActionBuy, Ticker: "161005"}
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	if err := store.Insert(ctx, trade); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeRecordStore_InsertBulkAtomic(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		{TradeID: "t1", Date: day(1), Action: domain.ActionBuy, Ticker: "161005"},
		{TradeID: "t1", Date: day(2), Action: domain.ActionSell, Ticker: "161005"},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 0 {
		t.Errorf("Failed batch must insert nothing, got %d trades", len(all))
	}
}

func TestTradeRecordStore_GetAllOrdered(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		{TradeID: "b", Date: day(2), Action: domain.ActionSell, Ticker: "161005"},
		{TradeID: "c", Date: day(1), Action: domain.ActionBuy, Ticker: "162411"},
		{TradeID: "a", Date: day(2), Action: domain.ActionBuy, Ticker: "161005"},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	wantIDs := []string{"c", "a", "b"} // date ASC, then trade_id ASC
	for i, want := range wantIDs {
		if all[i].TradeID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, all[i].TradeID)
		}
	}
}

func TestTradeRecordStore_InvalidInput(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.TradeRecord{Date: day(1)}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty trade_id, got %v", err)
	}
}
