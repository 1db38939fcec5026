package domain

// FeeSchedule holds the tiered subscription fee structure for one fund.
// Corresponds to one row of the fund_fees table.
type FeeSchedule struct {
	Ticker string

	// Tier 1: amount < Limit1 pays Rate1 proportionally.
	Rate1  float64
	Limit1 float64

	// Tier 2: Limit1 <= amount < Limit2 pays Rate2 proportionally.
	Rate2  float64
	Limit2 float64

	// Tier 3: amount >= Limit2 pays FixedFee flat.
	FixedFee float64

	// RedeemFee7d is the redemption fee rate for positions held under
	// 7 days. Carried as part of the schedule contract; the daily
	// subscription path does not charge it.
	RedeemFee7d float64
}

// DefaultFeeSchedule returns the schedule commonly published by onshore
// funds: 1.5% under 500k, 1.0% under 2M, flat 1000 at or above 2M.
func DefaultFeeSchedule(ticker string) FeeSchedule {
	return FeeSchedule{
		Ticker:      ticker,
		Rate1:       0.015,
		Limit1:      500_000,
		Rate2:       0.010,
		Limit2:      2_000_000,
		FixedFee:    1000,
		RedeemFee7d: 0.015,
	}
}
