package domain

import "time"

// LimitEvent is one purchase-limit announcement period: while active, daily
// subscriptions into the fund are capped at MaxAmount. Corresponds to the
// limit_events table.
type LimitEvent struct {
	ID        int64
	Ticker    string
	StartDate time.Time
	// EndDate is nil for open-ended limits: the cap applies from
	// StartDate until a later announcement lifts it.
	EndDate   *time.Time
	MaxAmount float64
	Reason    string
}

// Covers reports whether the limit is in force on the given date.
func (e *LimitEvent) Covers(date time.Time) bool {
	if date.Before(e.StartDate) {
		return false
	}
	if e.EndDate == nil {
		return true
	}
	return !date.After(*e.EndDate)
}
