package domain

// Notional is a trade size that is either a concrete cash amount or
// unbounded ("as much as possible"). It replaces floating-point infinity as
// the sentinel so that unbounded values can never leak into fee or equity
// arithmetic.
type Notional struct {
	amount    float64
	unbounded bool
}

// Capped returns a Notional bounded by amount.
func Capped(amount float64) Notional {
	return Notional{amount: amount}
}

// Unbounded returns a Notional with no ceiling.
func Unbounded() Notional {
	return Notional{unbounded: true}
}

// IsUnbounded reports whether the notional has no ceiling.
func (n Notional) IsUnbounded() bool {
	return n.unbounded
}

// Amount returns the concrete ceiling. Only valid when !IsUnbounded().
func (n Notional) Amount() float64 {
	return n.amount
}

// IsPositive reports whether any amount at all may be traded under this
// notional. Unbounded is always positive.
func (n Notional) IsPositive() bool {
	return n.unbounded || n.amount > 0
}

// Cap returns the smaller of v and the notional's ceiling. Unbounded
// notionals leave v unchanged.
func (n Notional) Cap(v float64) float64 {
	if n.unbounded || v < n.amount {
		return v
	}
	return n.amount
}
