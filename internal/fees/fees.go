// Package fees computes tiered subscription fees.
package fees

import "lof-arb-lab/internal/domain"

// Subscription returns the fee for subscribing amount under the schedule:
// proportional Rate1 below Limit1, proportional Rate2 below Limit2, and the
// flat FixedFee at or above Limit2. Deterministic, no side effects. The
// engine must verify the capped amount still exceeds the fee before
// committing a buy.
func Subscription(amount float64, schedule domain.FeeSchedule) float64 {
	switch {
	case amount < schedule.Limit1:
		return amount * schedule.Rate1
	case amount < schedule.Limit2:
		return amount * schedule.Rate2
	default:
		return schedule.FixedFee
	}
}
