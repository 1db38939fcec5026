package domain

import "time"

// MarketBar is one raw exchange OHLCV row, before bundle assembly.
// Corresponds to the market_bars table.
type MarketBar struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NAVPoint is one published net asset value. Corresponds to the nav_points
// table.
type NAVPoint struct {
	Ticker string
	Date   time.Time
	NAV    float64
}
