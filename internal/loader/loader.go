// Package loader assembles per-instrument bundles from storage: market
// bars inner-joined with NAV points, premium and MA5 volume derived, and
// purchase-limit events resampled into per-day subscription caps.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// ErrNoData indicates the ticker has no joined bar/NAV rows in the range.
var ErrNoData = errors.New("no market data for ticker")

const ma5Window = 5

// Loader builds domain.Bundle values from the underlying stores. It
// implements engine.BundleLoader.
type Loader struct {
	bars   storage.MarketBarStore
	navs   storage.NAVStore
	fees   storage.FeeScheduleStore
	limits storage.LimitEventStore
}

// New creates a Loader over the given stores.
func New(bars storage.MarketBarStore, navs storage.NAVStore, fees storage.FeeScheduleStore, limits storage.LimitEventStore) *Loader {
	return &Loader{bars: bars, navs: navs, fees: fees, limits: limits}
}

// LoadBundle assembles the bundle for one ticker within [start, end].
// Zero start/end mean unbounded on that side. Bars without a matching NAV
// point (and vice versa) are dropped: the premium is undefined without
// both sides. A missing fee schedule falls back to the default tiers.
func (l *Loader) LoadBundle(ctx context.Context, ticker string, start, end time.Time) (*domain.Bundle, error) {
	marketBars, err := l.bars.GetByDateRange(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("load market bars for %s: %w", ticker, err)
	}
	navPoints, err := l.navs.GetByDateRange(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("load nav points for %s: %w", ticker, err)
	}

	navByDate := make(map[time.Time]float64, len(navPoints))
	for _, p := range navPoints {
		navByDate[domain.Day(p.Date)] = p.NAV
	}

	var bars []*domain.Bar
	for _, mb := range marketBars {
		date := domain.Day(mb.Date)
		nav, ok := navByDate[date]
		if !ok || nav <= 0 {
			continue
		}
		bars = append(bars, &domain.Bar{
			Ticker:      ticker,
			Date:        date,
			Open:        mb.Open,
			High:        mb.High,
			Low:         mb.Low,
			Close:       mb.Close,
			Volume:      mb.Volume,
			NAV:         nav,
			PremiumRate: (mb.Close - nav) / nav,
			DailyCap:    domain.Unbounded(),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	computeMA5Volume(bars)

	events, err := l.limits.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load limit events for %s: %w", ticker, err)
	}
	applyLimits(bars, events)

	schedule, err := l.fees.GetByTicker(ctx, ticker)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		def := domain.DefaultFeeSchedule(ticker)
		schedule = &def
	default:
		return nil, fmt.Errorf("load fee schedule for %s: %w", ticker, err)
	}

	return &domain.Bundle{
		Ticker: ticker,
		Bars:   bars,
		Fees:   *schedule,
	}, nil
}

// computeMA5Volume fills the trailing 5-day average volume including the
// current day. The window shrinks at the start of the series, matching a
// min_periods=1 rolling mean.
func computeMA5Volume(bars []*domain.Bar) {
	var sum float64
	for i, bar := range bars {
		sum += bar.Volume
		if i >= ma5Window {
			sum -= bars[i-ma5Window].Volume
		}
		n := i + 1
		if n > ma5Window {
			n = ma5Window
		}
		bar.MA5Volume = sum / float64(n)
	}
}

// applyLimits resamples limit-event periods into per-bar daily caps. When
// several events cover the same date the tightest cap wins.
func applyLimits(bars []*domain.Bar, events []*domain.LimitEvent) {
	if len(events) == 0 {
		return
	}
	for _, bar := range bars {
		for _, ev := range events {
			if !ev.Covers(bar.Date) {
				continue
			}
			if bar.DailyCap.IsUnbounded() || ev.MaxAmount < bar.DailyCap.Amount() {
				bar.DailyCap = domain.Capped(ev.MaxAmount)
			}
		}
	}
}
