// Package strategy defines the signal-policy contract and the default
// premium arbitrage policy.
package strategy

import "lof-arb-lab/internal/domain"

// Input is the per-instrument, per-day view a strategy decides on.
type Input struct {
	Bar *domain.Bar

	// SettledShares is the instrument's currently sellable position.
	SettledShares float64

	Config domain.RunConfig
}

// Strategy produces trade intents for one instrument on one day. The engine
// enforces all execution constraints (caps, fees, settlement); strategies
// express intent only.
type Strategy interface {
	// Signals returns the intended trades, sells before buys. Empty when
	// no action is warranted.
	Signals(input Input) []domain.Signal

	// ID returns the strategy identifier.
	ID() string
}
