package reporting

import (
	"time"

	"lof-arb-lab/internal/domain"
)

// Report represents a completed run report.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Run parameters
	Config domain.RunConfig

	// Data summary
	DataSummary DataSummary

	// Derived statistics
	Performance domain.PerformanceSummary

	// Per-trade rows, ordered by date then trade ID
	Trades []TradeRow

	// Daily equity curve, ordered by date
	EquityCurve []EquityRow
}

// DataSummary describes the run's inputs and extent.
type DataSummary struct {
	Tickers        []string
	TradingDays    int
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// TradeRow represents one row of the trades table.
type TradeRow struct {
	TradeID   string
	Date      time.Time
	Action    string
	Ticker    string
	Shares    float64
	Price     float64
	Amount    float64
	Fee       float64
	NetAmount float64
}

// EquityRow represents one daily equity-curve point.
type EquityRow struct {
	Date           time.Time
	TotalEquity    float64
	Cash           float64
	PositionsValue float64
}
