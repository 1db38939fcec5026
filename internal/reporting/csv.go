package reporting

import (
	"fmt"
	"strings"
)

// RenderTradesCSV renders the trades table as CSV string.
func RenderTradesCSV(trades []TradeRow) string {
	var sb strings.Builder

	sb.WriteString("trade_id,trade_date,action,ticker,shares,price,amount,fee,net_amount\n")
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			t.TradeID,
			t.Date.Format(dateLayout),
			t.Action,
			t.Ticker,
			t.Shares,
			t.Price,
			t.Amount,
			t.Fee,
			t.NetAmount,
		))
	}

	return sb.String()
}

// RenderEquityCSV renders the equity curve as CSV string.
func RenderEquityCSV(curve []EquityRow) string {
	var sb strings.Builder

	sb.WriteString("trade_date,total_equity,cash,positions_value\n")
	for _, e := range curve {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f\n",
			e.Date.Format(dateLayout),
			e.TotalEquity,
			e.Cash,
			e.PositionsValue,
		))
	}

	return sb.String()
}
