// Package ledger tracks the single mutable state of a simulation run: cash,
// settled holdings, and the T+2 pending-settlement queue.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

// epsilon absorbs floating-point noise in cash and share comparisons.
const epsilon = 1e-9

// Invariant errors. Reaching either during a run means the engine's own cap
// computation is wrong; they are never retried or clamped.
var (
	ErrInsufficientCash   = errors.New("insufficient cash")
	ErrInsufficientShares = errors.New("insufficient settled shares")
)

// pendingSettlement is one enqueued buy awaiting T+2 maturation.
type pendingSettlement struct {
	settleDate time.Time
	ticker     string
	shares     float64
}

// Ledger holds cash, settled positions, and pending settlements. Shares
// bought on day T become sellable once Advance reaches the second trading
// day after T; sell proceeds credit cash immediately (T+0).
type Ledger struct {
	cash    float64
	settled map[string]float64
	pending []pendingSettlement
	current time.Time
}

// New creates a ledger with the given starting cash and no positions.
func New(initialCash float64) *Ledger {
	return &Ledger{
		cash:    initialCash,
		settled: make(map[string]float64),
	}
}

// Advance moves the ledger to date and matures every pending settlement
// whose settle date is on or before it. Must be called once per simulated
// day, in non-decreasing date order, before any trade executes that day.
func (l *Ledger) Advance(date time.Time) {
	l.current = date

	stillPending := l.pending[:0]
	for _, p := range l.pending {
		if p.settleDate.After(date) {
			stillPending = append(stillPending, p)
			continue
		}
		l.settled[p.ticker] += p.shares
	}
	l.pending = stillPending
}

// Sell disposes settled shares at price, applying the commission rate, and
// credits the net proceeds to cash immediately. Returns
// ErrInsufficientShares if shares exceeds the settled position beyond
// tolerance.
func (l *Ledger) Sell(ticker string, shares, price, commissionRate float64) (float64, error) {
	available := l.SettledShares(ticker)
	if shares > available+epsilon {
		return 0, fmt.Errorf("%w for %s: requested %v, available %v",
			ErrInsufficientShares, ticker, shares, available)
	}

	gross := shares * price
	commission := gross * commissionRate
	net := gross - commission

	l.settled[ticker] -= shares
	if l.settled[ticker] < epsilon {
		l.settled[ticker] = 0
	}
	l.cash += net

	return net, nil
}

// Buy debits amount from cash and enqueues (amount - fee) / nav shares for
// T+2 settlement against the trading calendar. Returns the shares
// purchased; they are not sellable until settlement matures. Returns
// ErrInsufficientCash if amount exceeds cash beyond tolerance.
func (l *Ledger) Buy(ticker string, amount, nav, fee float64, calendar []time.Time) (float64, error) {
	if amount > l.cash+epsilon {
		return 0, fmt.Errorf("%w: requested %v, available %v",
			ErrInsufficientCash, amount, l.cash)
	}

	shares := (amount - fee) / nav
	l.cash -= amount

	l.pending = append(l.pending, pendingSettlement{
		settleDate: l.settleDate(calendar),
		ticker:     ticker,
		shares:     shares,
	})

	return shares, nil
}

// settleDate resolves T+2 against the trading calendar: the trading day two
// positions after the current day. Falls back to calendar-day offsets when
// the current day is absent from the calendar (+2) or fewer than two future
// trading days remain (+4, conservative).
func (l *Ledger) settleDate(calendar []time.Time) time.Time {
	idx := -1
	for i, d := range calendar {
		if d.Equal(l.current) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l.current.AddDate(0, 0, 2)
	}
	if idx+2 < len(calendar) {
		return calendar[idx+2]
	}
	return l.current.AddDate(0, 0, 4)
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	return l.cash
}

// SettledShares returns the shares currently sellable for ticker.
func (l *Ledger) SettledShares(ticker string) float64 {
	return l.settled[ticker]
}

// PendingShares returns the shares awaiting settlement for ticker.
func (l *Ledger) PendingShares(ticker string) float64 {
	var total float64
	for _, p := range l.pending {
		if p.ticker == ticker {
			total += p.shares
		}
	}
	return total
}

// TotalShares returns settled plus pending shares for ticker.
func (l *Ledger) TotalShares(ticker string) float64 {
	return l.SettledShares(ticker) + l.PendingShares(ticker)
}

// PositionsValue prices every settled and pending holding with the given
// close prices. Tickers missing from the map value at zero.
func (l *Ledger) PositionsValue(prices map[string]float64) float64 {
	var value float64
	for ticker, shares := range l.settled {
		value += shares * prices[ticker]
	}
	for _, p := range l.pending {
		value += p.shares * prices[p.ticker]
	}
	return value
}

// TotalValue returns cash plus the value of all holdings.
func (l *Ledger) TotalValue(prices map[string]float64) float64 {
	return l.cash + l.PositionsValue(prices)
}

// Tickers returns every ticker with a settled or pending position, for
// snapshot bookkeeping.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]struct{})
	for ticker, shares := range l.settled {
		if shares > 0 {
			seen[ticker] = struct{}{}
		}
	}
	for _, p := range l.pending {
		seen[p.ticker] = struct{}{}
	}
	tickers := make([]string, 0, len(seen))
	for ticker := range seen {
		tickers = append(tickers, ticker)
	}
	return tickers
}
