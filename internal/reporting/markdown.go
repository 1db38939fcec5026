package reporting

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tickers | %s |\n", strings.Join(r.DataSummary.Tickers, ", ")))
	sb.WriteString(fmt.Sprintf("| Trading Days | %d |\n", r.DataSummary.TradingDays))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			r.DataSummary.DateRangeStart.Format(dateLayout),
			r.DataSummary.DateRangeEnd.Format(dateLayout)))
	}
	sb.WriteString(fmt.Sprintf("| Initial Cash | %.2f |\n", r.Config.InitialCash))
	sb.WriteString(fmt.Sprintf("| Buy Threshold | %.4f |\n", r.Config.BuyThreshold))
	sb.WriteString(fmt.Sprintf("| Liquidity Ratio | %.4f |\n", r.Config.LiquidityRatio))
	sb.WriteString(fmt.Sprintf("| Capital Mode | %s |\n", r.Config.CapitalMode))
	sb.WriteString("\n")

	// Performance
	p := r.Performance
	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Start Equity | %.2f |\n", p.StartEquity))
	sb.WriteString(fmt.Sprintf("| End Equity | %.2f |\n", p.EndEquity))
	sb.WriteString(fmt.Sprintf("| Total Return | %.2f%% |\n", p.TotalReturn*100))
	sb.WriteString(fmt.Sprintf("| Annualized Return | %.2f%% |\n", p.AnnualizedReturn*100))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", p.MaxDrawdown*100))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", p.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Trades | %d (%d buys, %d sells) |\n",
		p.NumTrades, p.NumBuyTrades, p.NumSellTrades))
	sb.WriteString("\n")

	// Trades
	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Date | Action | Ticker | Shares | Price | Amount | Fee | Net |\n")
		sb.WriteString("|------|--------|--------|--------|-------|--------|-----|-----|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %.4f | %.2f | %.2f | %.2f |\n",
				t.Date.Format(dateLayout), t.Action, t.Ticker,
				t.Shares, t.Price, t.Amount, t.Fee, t.NetAmount))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	// Equity Curve
	sb.WriteString("## Equity Curve\n\n")
	if len(r.EquityCurve) > 0 {
		sb.WriteString("| Date | Total Equity | Cash | Positions |\n")
		sb.WriteString("|------|--------------|------|----------|\n")
		for _, e := range r.EquityCurve {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f |\n",
				e.Date.Format(dateLayout), e.TotalEquity, e.Cash, e.PositionsValue))
		}
	} else {
		sb.WriteString("No equity data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
