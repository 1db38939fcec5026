package domain

import "time"

// Action represents a trade direction.
type Action string

// Action constants.
const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Signal is a strategy's intent to trade one instrument on one day. The
// engine turns signals into constrained trades; a signal carries no
// execution details.
type Signal struct {
	Action Action
	Ticker string
	Amount Notional
}

// TradeRecord represents one executed trade with full execution details.
// Corresponds to the trade_records table. Append-only.
type TradeRecord struct {
	TradeID string // deterministic hash
	Date    time.Time
	Action  Action
	Ticker  string

	Shares float64
	// Price is the execution price: close for sells, NAV for buys
	// (subscription executes at net asset value).
	Price float64

	Amount    float64 // gross notional
	Fee       float64 // subscription fee or sell commission
	NetAmount float64 // Amount - Fee
}

// DailySnapshot records account state at one day's close. Append-only, one
// per simulated day.
type DailySnapshot struct {
	Date time.Time

	// TotalEquity = Cash + PositionsValue, with settled and pending
	// holdings both priced at the day's close.
	TotalEquity    float64
	Cash           float64
	PositionsValue float64
}
