package strategy

import "lof-arb-lab/internal/domain"

// PremiumArb is the default LOF premium arbitrage policy:
//   - SELL: any settled position is liquidated in full, every day. Capital
//     recycling takes priority over holding.
//   - BUY: when the premium rate exceeds the configured threshold and the
//     daily subscription cap is positive, buy as much as constraints allow.
type PremiumArb struct{}

// NewPremiumArb creates the default premium arbitrage strategy.
func NewPremiumArb() *PremiumArb {
	return &PremiumArb{}
}

// ID returns the strategy identifier.
func (s *PremiumArb) ID() string {
	return "PREMIUM_ARB"
}

// Signals implements Strategy. Sell signals precede buy signals so the
// engine recycles capital before funding new subscriptions.
func (s *PremiumArb) Signals(input Input) []domain.Signal {
	var signals []domain.Signal

	if input.SettledShares > 0 {
		signals = append(signals, domain.Signal{
			Action: domain.ActionSell,
			Ticker: input.Bar.Ticker,
			Amount: domain.Unbounded(),
		})
	}

	if input.Bar.PremiumRate > input.Config.BuyThreshold && input.Bar.DailyCap.IsPositive() {
		signals = append(signals, domain.Signal{
			Action: domain.ActionBuy,
			Ticker: input.Bar.Ticker,
			Amount: domain.Unbounded(),
		})
	}

	return signals
}

var _ Strategy = (*PremiumArb)(nil)
