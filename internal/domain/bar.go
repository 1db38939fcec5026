package domain

import "time"

// Bar represents one instrument's daily market snapshot after bundle
// assembly: exchange OHLCV merged with NAV, plus the derived premium rate
// and the externally imposed daily subscription cap.
type Bar struct {
	Ticker string
	Date   time.Time // UTC midnight

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// MA5Volume is the trailing 5-day average volume including this day,
	// shrinking at the start of the series.
	MA5Volume float64

	NAV float64

	// PremiumRate = (Close - NAV) / NAV.
	PremiumRate float64

	// DailyCap is the subscription ceiling for this instrument on this day.
	// Unbounded when no purchase-limit event covers the date.
	DailyCap Notional
}

// Bundle is an immutable, date-aligned table of bars for one instrument
// with its fee schedule attached.
type Bundle struct {
	Ticker string
	Bars   []*Bar // ordered by Date ASC
	Fees   FeeSchedule
}

// BarOn returns the bar for the given date, or nil if the instrument has
// no data on that date.
func (b *Bundle) BarOn(date time.Time) *Bar {
	for _, bar := range b.Bars {
		if bar.Date.Equal(date) {
			return bar
		}
	}
	return nil
}

// Day truncates a timestamp to UTC midnight. All bar dates, trading
// calendars, and settlement dates use this normalization.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
