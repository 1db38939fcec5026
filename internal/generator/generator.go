// Package generator produces deterministic synthetic fund data: NAV
// random walks, market bars with premium spikes, tiered fee schedules,
// and purchase-limit events derived from the premium path.
package generator

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/storage"
)

// Config errors
var (
	ErrNoTickers          = errors.New("tickers list cannot be empty")
	ErrInvalidDateRange   = errors.New("end date must not precede start date")
	ErrInvalidInitialNAV  = errors.New("initial nav must be positive")
	ErrInvalidThresholds  = errors.New("limit trigger threshold must exceed release threshold")
	ErrInvalidConsecutive = errors.New("consecutive days must be >= 1")
)

// Config controls the synthetic data generation. Generation is seeded per
// ticker: the same config always produces the same dataset.
type Config struct {
	Tickers   []string
	StartDate time.Time
	EndDate   time.Time

	InitialNAV    float64
	NAVDrift      float64
	NAVVolatility float64

	PremiumVolatility float64
	SpikeProbability  float64

	LimitTriggerThreshold float64
	LimitReleaseThreshold float64
	ConsecutiveDays       int
	LimitMaxAmount        float64
}

// DefaultConfig returns generation parameters producing roughly monthly
// premium spikes over one calendar year.
func DefaultConfig() Config {
	return Config{
		Tickers:               []string{"161005", "162411", "161725", "501018", "160216"},
		StartDate:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		InitialNAV:            2.0,
		NAVDrift:              -0.0005,
		NAVVolatility:         0.015,
		PremiumVolatility:     0.01,
		SpikeProbability:      0.04,
		LimitTriggerThreshold: 0.07,
		LimitReleaseThreshold: 0.03,
		ConsecutiveDays:       1,
		LimitMaxAmount:        100,
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if len(c.Tickers) == 0 {
		return ErrNoTickers
	}
	if c.EndDate.Before(c.StartDate) {
		return ErrInvalidDateRange
	}
	if c.InitialNAV <= 0 {
		return ErrInvalidInitialNAV
	}
	if c.LimitTriggerThreshold <= c.LimitReleaseThreshold {
		return ErrInvalidThresholds
	}
	if c.ConsecutiveDays < 1 {
		return ErrInvalidConsecutive
	}
	return nil
}

// Generator writes synthetic datasets through the storage interfaces.
type Generator struct {
	bars   storage.MarketBarStore
	navs   storage.NAVStore
	fees   storage.FeeScheduleStore
	limits storage.LimitEventStore
}

// Options contains the stores a Generator writes to.
type Options struct {
	Bars   storage.MarketBarStore
	NAVs   storage.NAVStore
	Fees   storage.FeeScheduleStore
	Limits storage.LimitEventStore
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{
		bars:   opts.Bars,
		navs:   opts.NAVs,
		fees:   opts.Fees,
		limits: opts.Limits,
	}
}

// Stats summarizes one generation run.
type Stats struct {
	Tickers     int
	TradingDays int
	LimitEvents int
}

// Run generates and persists the full dataset for every configured ticker.
func (g *Generator) Run(ctx context.Context, cfg Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	calendar := businessDays(cfg.StartDate, cfg.EndDate)
	stats := &Stats{Tickers: len(cfg.Tickers), TradingDays: len(calendar)}

	for _, ticker := range cfg.Tickers {
		navs := generateNAVs(ticker, calendar, cfg)
		bars, premiums := generateBars(ticker, calendar, navs, cfg)
		events := identifyLimitEvents(ticker, calendar, premiums, cfg)

		if err := g.navs.InsertBulk(ctx, navs); err != nil {
			return nil, fmt.Errorf("insert navs for %s: %w", ticker, err)
		}
		if err := g.bars.InsertBulk(ctx, bars); err != nil {
			return nil, fmt.Errorf("insert bars for %s: %w", ticker, err)
		}
		schedule := domain.DefaultFeeSchedule(ticker)
		if err := g.fees.Insert(ctx, &schedule); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("insert fee schedule for %s: %w", ticker, err)
		}
		for _, ev := range events {
			if err := g.limits.Insert(ctx, ev); err != nil {
				return nil, fmt.Errorf("insert limit event for %s: %w", ticker, err)
			}
		}
		stats.LimitEvents += len(events)
	}

	return stats, nil
}

// businessDays lists Monday..Friday dates in [start, end] at UTC midnight.
func businessDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		days = append(days, d)
	}
	return days
}

// seedFor derives a stable per-ticker seed so regeneration reproduces the
// exact same series.
func seedFor(ticker, stream string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	h.Write([]byte("|"))
	h.Write([]byte(stream))
	return int64(h.Sum64() & math.MaxInt64)
}

// generateNAVs walks NAV as geometric Brownian motion.
func generateNAVs(ticker string, calendar []time.Time, cfg Config) []*domain.NAVPoint {
	rng := rand.New(rand.NewSource(seedFor(ticker, "nav")))

	points := make([]*domain.NAVPoint, 0, len(calendar))
	logNAV := math.Log(cfg.InitialNAV)
	for _, date := range calendar {
		logNAV += cfg.NAVDrift + cfg.NAVVolatility*rng.NormFloat64()
		points = append(points, &domain.NAVPoint{
			Ticker: ticker,
			Date:   date,
			NAV:    math.Exp(logNAV),
		})
	}
	return points
}

// generateBars derives market bars from the NAV path: close = nav * (1 +
// premium), where the premium follows a spike-and-decay process. Returns
// the bars and the premium path for limit-event derivation.
func generateBars(ticker string, calendar []time.Time, navs []*domain.NAVPoint, cfg Config) ([]*domain.MarketBar, []float64) {
	rng := rand.New(rand.NewSource(seedFor(ticker, "price")))

	const intradayVol = 0.01
	const baseVolume = 1_000_000

	bars := make([]*domain.MarketBar, 0, len(calendar))
	premiums := make([]float64, len(calendar))

	inSpike := false
	spikeLevel := 0.0

	for i, date := range calendar {
		var premium float64
		if !inSpike {
			if rng.Float64() < cfg.SpikeProbability {
				premium = 0.10 + rng.Float64()*0.15
				inSpike = true
				spikeLevel = premium
			} else {
				premium = rng.NormFloat64() * cfg.PremiumVolatility
			}
		} else {
			// Mean reversion after the spike.
			spikeLevel *= 0.85 + rng.Float64()*0.10
			premium = spikeLevel + rng.NormFloat64()*cfg.PremiumVolatility*0.5
			if premium < cfg.LimitReleaseThreshold*1.5 {
				inSpike = false
			}
		}
		premiums[i] = premium

		nav := navs[i].NAV
		closePrice := nav * (1 + premium)
		openPrice := closePrice * (1 + rng.NormFloat64()*intradayVol)

		high := math.Max(openPrice, closePrice) * (1 + math.Abs(rng.NormFloat64()*intradayVol*0.5))
		low := math.Min(openPrice, closePrice) * (1 - math.Abs(rng.NormFloat64()*intradayVol*0.5))

		// Volume is lognormal and swells with the premium.
		volumeMultiplier := 1 + math.Abs(premium)*5
		volume := math.Floor(math.Exp(math.Log(baseVolume) + math.Log(volumeMultiplier) + rng.NormFloat64()*0.5))

		bars = append(bars, &domain.MarketBar{
			Ticker: ticker,
			Date:   date,
			Open:   openPrice,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return bars, premiums
}

// identifyLimitEvents scans the premium path for sustained-high-premium
// periods. A limit starts the trading day after the trigger run completes
// and ends when the premium falls below the release threshold; a spike
// that never releases produces an event closed at the last date.
func identifyLimitEvents(ticker string, calendar []time.Time, premiums []float64, cfg Config) []*domain.LimitEvent {
	var events []*domain.LimitEvent

	inLimit := false
	highDays := 0
	var limitStart time.Time

	reason := fmt.Sprintf("High premium (>%.0f%%) for %d consecutive days",
		cfg.LimitTriggerThreshold*100, cfg.ConsecutiveDays)

	for i, premium := range premiums {
		if !inLimit {
			if premium > cfg.LimitTriggerThreshold {
				highDays++
				if highDays >= cfg.ConsecutiveDays {
					inLimit = true
					if i+1 < len(calendar) {
						limitStart = calendar[i+1]
					} else {
						limitStart = calendar[i]
					}
					highDays = 0
				}
			} else {
				highDays = 0
			}
			continue
		}

		if premium < cfg.LimitReleaseThreshold {
			end := calendar[i]
			events = append(events, &domain.LimitEvent{
				Ticker:    ticker,
				StartDate: limitStart,
				EndDate:   &end,
				MaxAmount: cfg.LimitMaxAmount,
				Reason:    reason,
			})
			inLimit = false
		}
	}

	if inLimit {
		end := calendar[len(calendar)-1]
		events = append(events, &domain.LimitEvent{
			Ticker:    ticker,
			StartDate: limitStart,
			EndDate:   &end,
			MaxAmount: cfg.LimitMaxAmount,
			Reason:    reason,
		})
	}

	return events
}
