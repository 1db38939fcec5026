package engine

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"lof-arb-lab/internal/domain"
)

// stubLoader serves pre-built bundles from memory.
type stubLoader struct {
	bundles map[string]*domain.Bundle
}

func (l *stubLoader) LoadBundle(_ context.Context, ticker string, _, _ time.Time) (*domain.Bundle, error) {
	bundle, ok := l.bundles[ticker]
	if !ok {
		return nil, fmt.Errorf("no bundle for %s", ticker)
	}
	return bundle, nil
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// makeBundle builds a bundle with one bar per premium, dates day(1)..day(n),
// NAV fixed at 2.0 and effectively unconstrained liquidity.
func makeBundle(ticker string, premiums []float64) *domain.Bundle {
	bars := make([]*domain.Bar, len(premiums))
	for i, p := range premiums {
		nav := 2.0
		bars[i] = &domain.Bar{
			Ticker:      ticker,
			Date:        day(i + 1),
			Close:       nav * (1 + p),
			Volume:      1e9,
			MA5Volume:   1e9,
			NAV:         nav,
			PremiumRate: p,
			DailyCap:    domain.Unbounded(),
		}
	}
	return &domain.Bundle{Ticker: ticker, Bars: bars, Fees: domain.DefaultFeeSchedule(ticker)}
}

func newTestEngine(t *testing.T, cfg domain.RunConfig, bundles map[string]*domain.Bundle) *Engine {
	t.Helper()
	eng, err := New(Options{Config: cfg, Loader: &stubLoader{bundles: bundles}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng
}

func TestEngine_FiveDayRoundTrip(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 100_000

	// Premium exceeds the 0.02 threshold on days 1 and 3 only.
	bundle := makeBundle("161005", []float64{0.03, -0.01, 0.05, 0.01, -0.02})
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Snapshots) != 5 {
		t.Fatalf("Expected 5 snapshots, got %d", len(result.Snapshots))
	}

	// Day 1 buy settles day 3, sells day 3; day 3 buy settles day 5, sells
	// day 5.
	var actions []string
	for _, tr := range result.Trades {
		actions = append(actions, fmt.Sprintf("%s:%d", tr.Action, tr.Date.Day()))
	}
	want := []string{"buy:1", "sell:3", "buy:3", "sell:5"}
	if len(actions) != len(want) {
		t.Fatalf("Expected trades %v, got %v", want, actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("Trade %d: expected %s, got %s", i, want[i], actions[i])
		}
	}

	// Day 1 commits all cash; shares = (100000 - 1500) / 2.
	buy := result.Trades[0]
	if math.Abs(buy.Amount-100_000) > 1e-9 {
		t.Errorf("Buy amount = %f, want 100000", buy.Amount)
	}
	if math.Abs(buy.Fee-1500) > 1e-9 {
		t.Errorf("Buy fee = %f, want 1500", buy.Fee)
	}
	if math.Abs(buy.Shares-49_250) > 1e-9 {
		t.Errorf("Buy shares = %f, want 49250", buy.Shares)
	}

	// Pending shares carry value in the snapshots before settlement.
	for _, i := range []int{0, 1} {
		s := result.Snapshots[i]
		if s.PositionsValue <= 0 {
			t.Errorf("Day %d: pending position must be valued, got %f", i+1, s.PositionsValue)
		}
		if s.Cash > 1e-9 {
			t.Errorf("Day %d: expected cash fully committed, got %f", i+1, s.Cash)
		}
	}

	// Equity identity holds every day.
	for i, s := range result.Snapshots {
		if math.Abs(s.TotalEquity-(s.Cash+s.PositionsValue)) > 1e-9 {
			t.Errorf("Day %d: equity %f != cash %f + positions %f",
				i+1, s.TotalEquity, s.Cash, s.PositionsValue)
		}
	}

	// After the final sell nothing is held.
	last := result.Snapshots[4]
	if last.PositionsValue > 1e-9 {
		t.Errorf("Final positions value = %f, want 0", last.PositionsValue)
	}
}

func TestEngine_GreedyFundsHighestPremiumFirst(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 50_000

	// Both above threshold on day 1; only one can be funded.
	bundles := map[string]*domain.Bundle{
		"LOW":  makeBundle("LOW", []float64{0.05, 0.0, 0.0}),
		"HIGH": makeBundle("HIGH", []float64{0.10, 0.0, 0.0}),
	}
	eng := newTestEngine(t, cfg, bundles)

	result, err := eng.Run(context.Background(), []string{"LOW", "HIGH"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var buys []*domain.TradeRecord
	for _, tr := range result.Trades {
		if tr.Action == domain.ActionBuy {
			buys = append(buys, tr)
		}
	}
	if len(buys) != 1 {
		t.Fatalf("Expected 1 buy, got %d", len(buys))
	}
	if buys[0].Ticker != "HIGH" {
		t.Errorf("Expected HIGH funded first, got %s", buys[0].Ticker)
	}
}

func TestEngine_DailyCapConstrainsBuy(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 100_000

	bundle := makeBundle("161005", []float64{0.08, 0.0, 0.0})
	bundle.Bars[0].DailyCap = domain.Capped(10_000)
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Trades) == 0 || result.Trades[0].Action != domain.ActionBuy {
		t.Fatal("Expected a buy trade")
	}
	if math.Abs(result.Trades[0].Amount-10_000) > 1e-9 {
		t.Errorf("Buy amount = %f, want capped 10000", result.Trades[0].Amount)
	}
}

func TestEngine_LiquidityCapUsesMA5(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 1_000_000

	bundle := makeBundle("161005", []float64{0.08, 0.0, 0.0})
	// MA5 is the binding side: min(volume, ma5) * ratio * close.
	bundle.Bars[0].Volume = 100_000
	bundle.Bars[0].MA5Volume = 50_000
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantAmount := 50_000 * cfg.LiquidityRatio * bundle.Bars[0].Close
	if len(result.Trades) == 0 {
		t.Fatal("Expected a buy trade")
	}
	if math.Abs(result.Trades[0].Amount-wantAmount) > 1e-9 {
		t.Errorf("Buy amount = %f, want %f", result.Trades[0].Amount, wantAmount)
	}
}

func TestEngine_SkipsBuyBelowFee(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 100_000

	bundle := makeBundle("161005", []float64{0.08, 0.0, 0.0})
	// Cap so tight the amount cannot cover its own fee.
	bundle.Bars[0].DailyCap = domain.Capped(0.5)
	bundle.Fees.FixedFee = 1000
	bundle.Fees.Rate1 = 1.0 // fee == amount in tier 1
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(result.Trades))
	}
}

func TestEngine_IntersectionCalendar(t *testing.T) {
	cfg := domain.DefaultRunConfig()

	a := makeBundle("A", []float64{0.0, 0.0, 0.0, 0.0})
	b := makeBundle("B", []float64{0.0, 0.0})
	// B misses days 3 and 4: the aligned calendar is days 1-2.
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"A": a, "B": b})

	result, err := eng.Run(context.Background(), []string{"A", "B"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Snapshots) != 2 {
		t.Errorf("Expected 2 aligned days, got %d", len(result.Snapshots))
	}
}

func TestEngine_MissingBundleSkippedWithWarning(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	bundle := makeBundle("161005", []float64{0.0, 0.0})
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005", "MISSING"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Snapshots) != 2 {
		t.Errorf("Expected run to continue with the loaded ticker, got %d snapshots", len(result.Snapshots))
	}
}

func TestEngine_EmptyResultOnNoData(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{})

	result, err := eng.Run(context.Background(), []string{"MISSING"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result == nil || !result.Empty() {
		t.Error("Expected an empty result")
	}
}

func TestEngine_InvalidConfigRejected(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = -1

	_, err := New(Options{Config: cfg, Loader: &stubLoader{}})
	if err == nil {
		t.Error("Expected config validation error")
	}
}

func TestEngine_UnboundedModeNeverOverdraws(t *testing.T) {
	cfg := domain.DefaultRunConfig()
	cfg.InitialCash = 10_000
	cfg.CapitalMode = domain.CapitalUnbounded

	bundle := makeBundle("161005", []float64{0.08, 0.08, 0.0, 0.0})
	eng := newTestEngine(t, cfg, map[string]*domain.Bundle{"161005": bundle})

	result, err := eng.Run(context.Background(), []string{"161005"}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, s := range result.Snapshots {
		if s.Cash < -1e-9 {
			t.Errorf("Day %d: cash went negative: %f", i+1, s.Cash)
		}
	}
}
