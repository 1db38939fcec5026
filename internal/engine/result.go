package engine

import "lof-arb-lab/internal/domain"

// Result holds the outputs of one run: the trade ledger, the daily equity
// curve, and the configuration used. Both lists accumulate append-only
// during the loop and are read-only afterwards.
type Result struct {
	Snapshots []*domain.DailySnapshot
	Trades    []*domain.TradeRecord
	Config    domain.RunConfig
}

// Empty reports whether the run produced no aligned trading days.
func (r *Result) Empty() bool {
	return len(r.Snapshots) == 0
}
