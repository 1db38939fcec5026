// Package reporting assembles run reports from stored trades and equity
// snapshots and renders them as Markdown or CSV.
package reporting

import (
	"context"
	"sort"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/metrics"
	"lof-arb-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	tradeStore  storage.TradeRecordStore
	equityStore storage.EquityCurveStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(tradeStore storage.TradeRecordStore, equityStore storage.EquityCurveStore) *Generator {
	return &Generator{
		tradeStore:  tradeStore,
		equityStore: equityStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads trades and equity snapshots, recomputes the performance
// summary, and builds the full report.
func (g *Generator) Generate(ctx context.Context, cfg domain.RunConfig) (*Report, error) {
	trades, err := g.tradeStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := g.equityStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		Config:      cfg,
		Performance: *metrics.Compute(snapshots, trades, cfg),
		DataSummary: buildDataSummary(trades, snapshots),
		Trades:      buildTradeRows(trades),
		EquityCurve: buildEquityRows(snapshots),
	}

	return report, nil
}

// buildDataSummary derives tickers and the date extent of the run.
func buildDataSummary(trades []*domain.TradeRecord, snapshots []*domain.DailySnapshot) DataSummary {
	summary := DataSummary{TradingDays: len(snapshots)}

	tickerSet := make(map[string]struct{})
	for _, t := range trades {
		tickerSet[t.Ticker] = struct{}{}
	}
	for ticker := range tickerSet {
		summary.Tickers = append(summary.Tickers, ticker)
	}
	sort.Strings(summary.Tickers)

	if len(snapshots) > 0 {
		summary.DateRangeStart = snapshots[0].Date
		summary.DateRangeEnd = snapshots[len(snapshots)-1].Date
	}

	return summary
}

func buildTradeRows(trades []*domain.TradeRecord) []TradeRow {
	rows := make([]TradeRow, len(trades))
	for i, t := range trades {
		rows[i] = TradeRow{
			TradeID:   t.TradeID,
			Date:      t.Date,
			Action:    string(t.Action),
			Ticker:    t.Ticker,
			Shares:    t.Shares,
			Price:     t.Price,
			Amount:    t.Amount,
			Fee:       t.Fee,
			NetAmount: t.NetAmount,
		}
	}
	return rows
}

func buildEquityRows(snapshots []*domain.DailySnapshot) []EquityRow {
	rows := make([]EquityRow, len(snapshots))
	for i, s := range snapshots {
		rows[i] = EquityRow{
			Date:           s.Date,
			TotalEquity:    s.TotalEquity,
			Cash:           s.Cash,
			PositionsValue: s.PositionsValue,
		}
	}
	return rows
}
