package domain

// PerformanceSummary holds the derived return and risk statistics of one
// completed run.
type PerformanceSummary struct {
	StartEquity float64
	EndEquity   float64

	TotalReturn float64
	// AnnualizedReturn uses the 252-trading-day convention. Defined as -1
	// on total wipeout.
	AnnualizedReturn float64
	// MaxDrawdown is the worst peak-to-trough decline of total equity,
	// as a positive fraction of the running peak.
	MaxDrawdown float64
	// SharpeRatio = (AnnualizedReturn - RiskFreeRate) / annualized vol.
	// Zero when daily volatility is essentially zero.
	SharpeRatio float64

	NumTrades     int
	NumBuyTrades  int
	NumSellTrades int
}
