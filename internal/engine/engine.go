// Package engine runs the day-by-day simulation loop: settlement, sell
// phase, constrained greedy buy phase, daily snapshot.
package engine

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/fees"
	"lof-arb-lab/internal/idhash"
	"lof-arb-lab/internal/ledger"
	"lof-arb-lab/internal/strategy"
)

// BundleLoader supplies the immutable per-instrument inputs of a run.
type BundleLoader interface {
	// LoadBundle returns the date-aligned bar table and fee schedule for
	// one ticker within [start, end]. Zero start/end mean unbounded.
	LoadBundle(ctx context.Context, ticker string, start, end time.Time) (*domain.Bundle, error)
}

// Engine composes the ledger, fee calculation, signal policy, and bundle
// data into the simulation loop. Single-threaded and fully deterministic.
type Engine struct {
	config   domain.RunConfig
	strategy strategy.Strategy
	loader   BundleLoader
	logger   *log.Logger
}

// Options configures a new Engine. Strategy defaults to the premium
// arbitrage policy; Logger defaults to a discarding logger.
type Options struct {
	Config   domain.RunConfig
	Strategy strategy.Strategy
	Loader   BundleLoader
	Logger   *log.Logger
}

// New validates the config and creates an Engine.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	strat := opts.Strategy
	if strat == nil {
		strat = strategy.NewPremiumArb()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Engine{
		config:   opts.Config,
		strategy: strat,
		loader:   opts.Loader,
		logger:   logger,
	}, nil
}

// buyCandidate is one instrument eligible for subscription on a given day.
type buyCandidate struct {
	bundle *domain.Bundle
	bar    *domain.Bar
	amount domain.Notional // requested by the signal
}

// sellOrder is one instrument the strategy wants out of on a given day.
type sellOrder struct {
	bar    *domain.Bar
	amount domain.Notional
}

// Run executes the simulation over the intersection trading calendar of the
// requested tickers. Returns an empty result (with a warning) when no
// bundle or no aligned trading day exists. A ledger invariant failure
// aborts the run: it indicates a bug in the cap computation, never a
// recoverable condition.
func (e *Engine) Run(ctx context.Context, tickers []string, start, end time.Time) (*Result, error) {
	bundles, calendar, err := e.loadAligned(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 || len(calendar) == 0 {
		e.logger.Printf("WARN no aligned trading days for tickers %v", tickers)
		return &Result{Config: e.config}, nil
	}

	// Index bars by date once; the loop hits every (ticker, date) pair.
	barIndex := make(map[string]map[time.Time]*domain.Bar, len(bundles))
	for ticker, bundle := range bundles {
		byDate := make(map[time.Time]*domain.Bar, len(bundle.Bars))
		for _, bar := range bundle.Bars {
			byDate[bar.Date] = bar
		}
		barIndex[ticker] = byDate
	}

	book := ledger.New(e.config.InitialCash)
	result := &Result{Config: e.config}

	for _, date := range calendar {
		// Step 1: mature T+2 settlements.
		book.Advance(date)

		sells, buys := e.collectSignals(bundles, barIndex, tickers, date, book)

		// Step 2: sell phase. Settled positions are disposed before any
		// new subscription is funded.
		for _, s := range sells {
			trade, err := e.executeSell(book, s, date, len(result.Trades))
			if err != nil {
				return nil, err
			}
			if trade != nil {
				result.Trades = append(result.Trades, trade)
			}
		}

		// Step 3: buy phase. Highest premium is funded first; ties keep
		// the stable ticker order.
		sort.SliceStable(buys, func(i, j int) bool {
			return buys[i].bar.PremiumRate > buys[j].bar.PremiumRate
		})
		for _, c := range buys {
			if book.Cash() <= 0 {
				break
			}
			trade, err := e.executeBuy(book, c, calendar, date, len(result.Trades))
			if err != nil {
				return nil, err
			}
			if trade != nil {
				result.Trades = append(result.Trades, trade)
			}
		}

		// Step 4: snapshot at the day's close.
		prices := make(map[string]float64, len(bundles))
		for ticker, byDate := range barIndex {
			if bar, ok := byDate[date]; ok {
				prices[ticker] = bar.Close
			}
		}
		result.Snapshots = append(result.Snapshots, &domain.DailySnapshot{
			Date:           date,
			TotalEquity:    book.TotalValue(prices),
			Cash:           book.Cash(),
			PositionsValue: book.PositionsValue(prices),
		})
	}

	return result, nil
}

// loadAligned loads every ticker's bundle and intersects their dates into
// the trading calendar. A missing bundle excludes that ticker with a
// warning rather than failing the run.
func (e *Engine) loadAligned(ctx context.Context, tickers []string, start, end time.Time) (map[string]*domain.Bundle, []time.Time, error) {
	bundles := make(map[string]*domain.Bundle, len(tickers))

	var common map[time.Time]int
	loaded := 0
	for _, ticker := range tickers {
		bundle, err := e.loader.LoadBundle(ctx, ticker, start, end)
		if err != nil {
			e.logger.Printf("WARN no bundle for %s: %v", ticker, err)
			continue
		}
		bundles[ticker] = bundle
		loaded++

		if common == nil {
			common = make(map[time.Time]int)
		}
		for _, bar := range bundle.Bars {
			common[bar.Date]++
		}
	}

	var calendar []time.Time
	for date, count := range common {
		if count == loaded {
			calendar = append(calendar, date)
		}
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Before(calendar[j]) })

	return bundles, calendar, nil
}

// collectSignals asks the strategy for every instrument's intent on one
// day, partitioned into sells and buy candidates. An instrument with no bar
// on the date is excluded from both phases.
func (e *Engine) collectSignals(bundles map[string]*domain.Bundle, barIndex map[string]map[time.Time]*domain.Bar, tickers []string, date time.Time, book *ledger.Ledger) ([]sellOrder, []buyCandidate) {
	var sells []sellOrder
	var buys []buyCandidate

	for _, ticker := range tickers {
		bundle, ok := bundles[ticker]
		if !ok {
			continue
		}
		bar, ok := barIndex[ticker][date]
		if !ok {
			continue
		}

		signals := e.strategy.Signals(strategy.Input{
			Bar:           bar,
			SettledShares: book.SettledShares(ticker),
			Config:        e.config,
		})
		for _, sig := range signals {
			switch sig.Action {
			case domain.ActionSell:
				sells = append(sells, sellOrder{bar: bar, amount: sig.Amount})
			case domain.ActionBuy:
				buys = append(buys, buyCandidate{bundle: bundle, bar: bar, amount: sig.Amount})
			}
		}
	}

	return sells, buys
}

// executeSell disposes shares at the day's close. Returns nil (no trade)
// when nothing is sellable.
func (e *Engine) executeSell(book *ledger.Ledger, order sellOrder, date time.Time, seq int) (*domain.TradeRecord, error) {
	ticker := order.bar.Ticker
	available := book.SettledShares(ticker)
	if available <= 0 {
		return nil, nil
	}

	price := order.bar.Close

	shares := available
	if !order.amount.IsUnbounded() {
		requested := order.amount.Amount() / price
		if requested < shares {
			shares = requested
		}
	}
	if shares <= 0 {
		return nil, nil
	}

	net, err := book.Sell(ticker, shares, price, e.config.CommissionRate)
	if err != nil {
		return nil, err
	}

	gross := shares * price
	return &domain.TradeRecord{
		TradeID:   idhash.ComputeTradeID(ticker, string(domain.ActionSell), date, seq),
		Date:      date,
		Action:    domain.ActionSell,
		Ticker:    ticker,
		Shares:    shares,
		Price:     price,
		Amount:    gross,
		Fee:       gross - net,
		NetAmount: net,
	}, nil
}

// executeBuy sizes a subscription as the minimum of the daily cap, the
// liquidity cap, remaining cash (in bounded mode), and the signal amount,
// then executes at NAV. Returns nil (no trade) when the capped amount
// cannot cover its own fee.
func (e *Engine) executeBuy(book *ledger.Ledger, c buyCandidate, calendar []time.Time, date time.Time, seq int) (*domain.TradeRecord, error) {
	bar := c.bar

	effectiveVolume := bar.Volume
	if e.config.UseMA5Liquidity && bar.MA5Volume < effectiveVolume {
		effectiveVolume = bar.MA5Volume
	}
	liquidityCap := effectiveVolume * e.config.LiquidityRatio * bar.Close

	amount := bar.DailyCap.Cap(liquidityCap)
	if e.config.CapitalMode == domain.CapitalBounded && book.Cash() < amount {
		amount = book.Cash()
	}
	amount = c.amount.Cap(amount)

	if amount <= 0 || book.Cash() <= 0 {
		return nil, nil
	}
	// Never exceed available cash, regardless of mode: the ledger debits
	// real cash and an overdraft is an invariant violation.
	if book.Cash() < amount {
		amount = book.Cash()
	}

	fee := fees.Subscription(amount, c.bundle.Fees)
	if amount <= fee {
		e.logger.Printf("buy skipped for %s: amount %.2f <= fee %.2f", bar.Ticker, amount, fee)
		return nil, nil
	}

	shares, err := book.Buy(bar.Ticker, amount, bar.NAV, fee, calendar)
	if err != nil {
		return nil, err
	}

	return &domain.TradeRecord{
		TradeID:   idhash.ComputeTradeID(bar.Ticker, string(domain.ActionBuy), date, seq),
		Date:      date,
		Action:    domain.ActionBuy,
		Ticker:    bar.Ticker,
		Shares:    shares,
		Price:     bar.NAV,
		Amount:    amount,
		Fee:       fee,
		NetAmount: amount - fee,
	}, nil
}
