package domain

import (
	"errors"
	"fmt"
)

// CapitalMode selects how the buy phase treats the cash balance.
type CapitalMode string

// Capital mode constants.
const (
	// CapitalBounded caps every buy by remaining cash.
	CapitalBounded CapitalMode = "bounded"
	// CapitalUnbounded ignores the cash constraint when sizing buys.
	// Used for capacity studies; the ledger still debits cash.
	CapitalUnbounded CapitalMode = "unbounded"
)

// Config validation errors.
var (
	ErrInvalidInitialCash    = errors.New("initial cash must be positive")
	ErrInvalidLiquidityRatio = errors.New("liquidity ratio must be in [0, 1]")
	ErrInvalidCommissionRate = errors.New("commission rate must be non-negative")
	ErrInvalidCapitalMode    = errors.New("capital mode must be bounded or unbounded")
	ErrInvalidRiskFreeRate   = errors.New("risk-free rate must be non-negative")
)

// RunConfig holds the immutable parameters of one simulation run.
type RunConfig struct {
	// InitialCash is the starting capital of the shared pool.
	InitialCash float64

	// LiquidityRatio is the fraction of a day's volume assumed tradable
	// without market impact.
	LiquidityRatio float64

	// BuyThreshold is the minimum premium rate that makes an instrument
	// a buy candidate.
	BuyThreshold float64

	// CommissionRate applies to sell proceeds.
	CommissionRate float64

	CapitalMode CapitalMode

	// UseMA5Liquidity caps effective volume at min(volume, 5-day average)
	// when sizing the liquidity constraint.
	UseMA5Liquidity bool

	// RiskFreeRate is the annual risk-free rate used by the Sharpe ratio.
	RiskFreeRate float64
}

// DefaultRunConfig returns the parameters used by the standard premium
// arbitrage study.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		InitialCash:     300_000,
		LiquidityRatio:  0.1,
		BuyThreshold:    0.02,
		CommissionRate:  0.0003,
		CapitalMode:     CapitalBounded,
		UseMA5Liquidity: true,
		RiskFreeRate:    0.02,
	}
}

// Validate checks all parameters eagerly. A RunConfig that fails validation
// must never reach the engine.
func (c RunConfig) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInitialCash, c.InitialCash)
	}
	if c.LiquidityRatio < 0 || c.LiquidityRatio > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidLiquidityRatio, c.LiquidityRatio)
	}
	if c.CommissionRate < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCommissionRate, c.CommissionRate)
	}
	if c.CapitalMode != CapitalBounded && c.CapitalMode != CapitalUnbounded {
		return fmt.Errorf("%w: got %q", ErrInvalidCapitalMode, c.CapitalMode)
	}
	if c.RiskFreeRate < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRiskFreeRate, c.RiskFreeRate)
	}
	return nil
}
