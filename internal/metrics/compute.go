// Package metrics derives return and risk statistics from a run's daily
// equity curve and trade ledger.
package metrics

import (
	"math"

	"lof-arb-lab/internal/domain"
)

// tradingDaysPerYear is the annualization convention.
const tradingDaysPerYear = 252

// volFloor is the daily volatility below which a series is treated as flat
// and the Sharpe ratio defined as zero.
const volFloor = 1e-10

// Compute derives the performance summary from ordered daily snapshots and
// the trade ledger. A run with fewer than one snapshot yields a zero
// summary.
func Compute(snapshots []*domain.DailySnapshot, trades []*domain.TradeRecord, cfg domain.RunConfig) *domain.PerformanceSummary {
	summary := &domain.PerformanceSummary{}

	for _, t := range trades {
		summary.NumTrades++
		switch t.Action {
		case domain.ActionBuy:
			summary.NumBuyTrades++
		case domain.ActionSell:
			summary.NumSellTrades++
		}
	}

	n := len(snapshots)
	if n == 0 {
		return summary
	}

	summary.StartEquity = snapshots[0].TotalEquity
	summary.EndEquity = snapshots[n-1].TotalEquity

	equity := make([]float64, n)
	for i, s := range snapshots {
		equity[i] = s.TotalEquity
	}

	summary.TotalReturn = computeTotalReturn(summary.StartEquity, summary.EndEquity)
	summary.AnnualizedReturn = computeAnnualizedReturn(summary.StartEquity, summary.EndEquity, n)
	summary.MaxDrawdown = computeMaxDrawdown(equity)
	summary.SharpeRatio = computeSharpe(equity, summary.AnnualizedReturn, cfg.RiskFreeRate)

	return summary
}

// computeTotalReturn is end/start - 1, or 0 for a degenerate start.
func computeTotalReturn(start, end float64) float64 {
	if start <= 0 {
		return 0
	}
	return end/start - 1
}

// computeAnnualizedReturn is the geometric annualization
// (end/start)^(252/n) - 1. A non-positive equity ratio (total wipeout) is
// defined as -1 rather than a domain error.
func computeAnnualizedReturn(start, end float64, n int) float64 {
	if start <= 0 || n <= 1 {
		return 0
	}
	ratio := end / start
	if ratio <= 0 {
		return -1
	}
	return math.Pow(ratio, tradingDaysPerYear/float64(n)) - 1
}

// computeMaxDrawdown is the worst (peak - value) / peak over the running
// maximum of the series. Exactly 0 for a non-decreasing series.
func computeMaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// computeSharpe is (annualized return - risk-free rate) over the annualized
// volatility of daily returns. Sample standard deviation (n-1 denominator);
// defined as 0 when daily volatility is below volFloor.
func computeSharpe(equity []float64, annualizedReturn, riskFreeRate float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		r := equity[i]/equity[i-1] - 1
		if math.IsNaN(r) || math.IsInf(r, 0) {
			r = 0
		}
		returns = append(returns, r)
	}

	dailyVol := sampleStddev(returns)
	if dailyVol < volFloor {
		return 0
	}

	annualizedVol := dailyVol * math.Sqrt(tradingDaysPerYear)
	return (annualizedReturn - riskFreeRate) / annualizedVol
}

// sampleStddev is the n-1 denominator standard deviation; 0 below two
// samples.
func sampleStddev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, x := range xs {
		diff := x - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
