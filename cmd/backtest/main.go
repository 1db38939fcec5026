package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lof-arb-lab/internal/domain"
	"lof-arb-lab/internal/engine"
	"lof-arb-lab/internal/generator"
	"lof-arb-lab/internal/loader"
	"lof-arb-lab/internal/metrics"
	"lof-arb-lab/internal/storage"
	chstore "lof-arb-lab/internal/storage/clickhouse"
	"lof-arb-lab/internal/storage/memory"
	pgstore "lof-arb-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	tickersFlag := flag.String("tickers", "", "Comma-separated fund tickers (required)")
	startFlag := flag.String("start", "", "Start date YYYY-MM-DD (default: unbounded)")
	endFlag := flag.String("end", "", "End date YYYY-MM-DD (default: unbounded)")

	// Run parameters
	initialCash := flag.Float64("initial-cash", 300_000, "Initial cash")
	liquidityRatio := flag.Float64("liquidity-ratio", 0.1, "Fraction of daily volume available for subscription")
	buyThreshold := flag.Float64("buy-threshold", 0.02, "Premium rate threshold to trigger a buy")
	commissionRate := flag.Float64("commission-rate", 0.0003, "Sell-side commission rate")
	capitalMode := flag.String("capital-mode", "bounded", "Capital mode: bounded, unbounded")
	useMA5 := flag.Bool("use-ma5-liquidity", true, "Use trailing 5-day average volume for the liquidity cap")
	riskFreeRate := flag.Float64("risk-free-rate", 0.02, "Annual risk-free rate for Sharpe")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage seeded with generated data")

	// Output
	outputJSON := flag.Bool("json", false, "Output summary as JSON")
	persistResult := flag.Bool("persist", false, "Persist trades and equity curve to storage")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	// Validate required flags
	if *tickersFlag == "" {
		logger.Fatal("--tickers is required")
	}
	tickers := splitTickers(*tickersFlag)

	start, err := parseDate(*startFlag)
	if err != nil {
		logger.Fatalf("invalid --start: %v", err)
	}
	end, err := parseDate(*endFlag)
	if err != nil {
		logger.Fatalf("invalid --end: %v", err)
	}

	cfg := domain.RunConfig{
		InitialCash:     *initialCash,
		LiquidityRatio:  *liquidityRatio,
		BuyThreshold:    *buyThreshold,
		CommissionRate:  *commissionRate,
		CapitalMode:     domain.CapitalMode(*capitalMode),
		UseMA5Liquidity: *useMA5,
		RiskFreeRate:    *riskFreeRate,
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid run config: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
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
	var tradeStore storage.TradeRecordStore = memory.NewTradeRecordStore()
	var equityStore storage.EquityCurveStore = memory.NewEquityCurveStore()

	if *useMemory {
		// Seed the memory stores with a deterministic synthetic dataset.
		genCfg := generator.DefaultConfig()
		genCfg.Tickers = tickers
		if !start.IsZero() {
			genCfg.StartDate = start
		}
		if !end.IsZero() {
			genCfg.EndDate = end
		}
		gen := generator.New(generator.Options{
			Bars: barStore, NAVs: navStore, Fees: feeStore, Limits: limitStore,
		})
		stats, err := gen.Run(ctx, genCfg)
		if err != nil {
			logger.Fatalf("generate synthetic data: %v", err)
		}
		logger.Printf("Generated %d trading days for %d tickers (%d limit events)",
			stats.TradingDays, stats.Tickers, stats.LimitEvents)
	} else {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (fees, limits, trade records)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (bars, NAV, equity curve)")
		}

		// PostgreSQL for fees, limit events, trade records
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		feeStore = pgstore.NewFeeScheduleStore(pool)
		limitStore = pgstore.NewLimitEventStore(pool)
		tradeStore = pgstore.NewTradeRecordStore(pool)

		// ClickHouse for time series
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		barStore = chstore.NewMarketBarStore(conn)
		navStore = chstore.NewNAVStore(conn)
		equityStore = chstore.NewEquityCurveStore(conn)
	}

	// Build and run the engine
	eng, err := engine.New(engine.Options{
		Config: cfg,
		Loader: loader.New(barStore, navStore, feeStore, limitStore),
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("create engine: %v", err)
	}

	logger.Printf("Running backtest: tickers=%v mode=%s threshold=%.4f",
		tickers, cfg.CapitalMode, cfg.BuyThreshold)

	result, err := eng.Run(ctx, tickers, start, end)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	summary := metrics.Compute(result.Snapshots, result.Trades, cfg)

	// Persist results
	if *persistResult {
		if len(result.Trades) > 0 {
			if err := tradeStore.InsertBulk(ctx, result.Trades); err != nil {
				logger.Fatalf("persist trades: %v", err)
			}
		}
		if len(result.Snapshots) > 0 {
			if err := equityStore.InsertBulk(ctx, result.Snapshots); err != nil {
				logger.Fatalf("persist equity curve: %v", err)
			}
		}
		logger.Printf("Persisted %d trades and %d equity snapshots",
			len(result.Trades), len(result.Snapshots))
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(output))
	} else {
		printSummary(summary, result)
	}
}

// splitTickers parses the comma-separated ticker list, dropping empties.
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

// parseDate parses YYYY-MM-DD; empty means the zero time (unbounded).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return domain.Day(t), nil
}

// printSummary outputs a human-readable run summary.
func printSummary(s *domain.PerformanceSummary, result *engine.Result) {
	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Trading Days:       %d\n", len(result.Snapshots))
	fmt.Printf("Start Equity:       %.2f\n", s.StartEquity)
	fmt.Printf("End Equity:         %.2f\n", s.EndEquity)
	fmt.Println()

	fmt.Println("Returns:")
	fmt.Printf("  Total Return:     %.2f%%\n", s.TotalReturn*100)
	fmt.Printf("  Annualized:       %.2f%%\n", s.AnnualizedReturn*100)
	fmt.Printf("  Max Drawdown:     %.2f%%\n", s.MaxDrawdown*100)
	fmt.Printf("  Sharpe Ratio:     %.4f\n", s.SharpeRatio)
	fmt.Println()

	fmt.Println("Trades:")
	fmt.Printf("  Total:            %d\n", s.NumTrades)
	fmt.Printf("  Buys:             %d\n", s.NumBuyTrades)
	fmt.Printf("  Sells:            %d\n", s.NumSellTrades)
}
