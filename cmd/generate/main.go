package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lof-arb-lab/internal/generator"
	"lof-arb-lab/internal/storage"
	chstore "lof-arb-lab/internal/storage/clickhouse"
	"lof-arb-lab/internal/storage/memory"
	pgstore "lof-arb-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	tickersFlag := flag.String("tickers", "", "Comma-separated fund tickers (default: built-in set)")
	startFlag := flag.String("start", "2024-01-01", "Start date YYYY-MM-DD")
	endFlag := flag.String("end", "2024-12-31", "End date YYYY-MM-DD")

	// Generation parameters
	initialNAV := flag.Float64("initial-nav", 2.0, "Initial NAV")
	spikeProb := flag.Float64("spike-probability", 0.04, "Daily probability of a premium spike")
	triggerThreshold := flag.Float64("limit-trigger", 0.07, "Premium threshold triggering a purchase limit")
	releaseThreshold := flag.Float64("limit-release", 0.03, "Premium threshold releasing a purchase limit")
	limitMaxAmount := flag.Float64("limit-max-amount", 100, "Daily subscription cap during a limit period")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	dryRun := flag.Bool("dry-run", false, "Generate into memory stores and discard (sanity check)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[generate] ", log.LstdFlags)

	cfg := generator.DefaultConfig()
	if *tickersFlag != "" {
		cfg.Tickers = splitTickers(*tickersFlag)
	}
	var err error
	cfg.StartDate, err = time.Parse("2006-01-02", *startFlag)
	if err != nil {
		logger.Fatalf("invalid --start: %v", err)
	}
	cfg.EndDate, err = time.Parse("2006-01-02", *endFlag)
	if err != nil {
		logger.Fatalf("invalid --end: %v", err)
	}
	cfg.InitialNAV = *initialNAV
	cfg.SpikeProbability = *spikeProb
	cfg.LimitTriggerThreshold = *triggerThreshold
	cfg.LimitReleaseThreshold = *releaseThreshold
	cfg.LimitMaxAmount = *limitMaxAmount

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid generator config: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create stores
	var barStore storage.MarketBarStore = memory.NewMarketBarStore()
	var navStore storage.NAVStore = memory.NewNAVStore()
	var feeStore storage.FeeScheduleStore = memory.NewFeeScheduleStore()
	var limitStore storage.LimitEventStore = memory.NewLimitEventStore()

	if !*dryRun {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required (fees and limit events)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required (bars and NAV)")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		feeStore = pgstore.NewFeeScheduleStore(pool)
		limitStore = pgstore.NewLimitEventStore(pool)

		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		barStore = chstore.NewMarketBarStore(conn)
		navStore = chstore.NewNAVStore(conn)
	}

	gen := generator.New(generator.Options{
		Bars:   barStore,
		NAVs:   navStore,
		Fees:   feeStore,
		Limits: limitStore,
	})

	logger.Printf("Generating data: tickers=%v range=%s..%s",
		cfg.Tickers, *startFlag, *endFlag)

	stats, err := gen.Run(ctx, cfg)
	if err != nil {
		logger.Fatalf("generation failed: %v", err)
	}

	logger.Printf("Done: %d tickers, %d trading days, %d limit events",
		stats.Tickers, stats.TradingDays, stats.LimitEvents)
}

func splitTickers(s string) []string {
	var tickers []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
