package domain

import "testing"

func TestNotional_Cap(t *testing.T) {
	if got := Capped(100).Cap(250); got != 100 {
		t.Errorf("Capped(100).Cap(250) = %f, want 100", got)
	}
	if got := Capped(100).Cap(50); got != 50 {
		t.Errorf("Capped(100).Cap(50) = %f, want 50", got)
	}
	if got := Unbounded().Cap(250); got != 250 {
		t.Errorf("Unbounded().Cap(250) = %f, want 250", got)
	}
}

func TestNotional_IsPositive(t *testing.T) {
	if !Unbounded().IsPositive() {
		t.Error("Unbounded must be positive")
	}
	if !Capped(100).IsPositive() {
		t.Error("Capped(100) must be positive")
	}
	if Capped(0).IsPositive() {
		t.Error("Capped(0) must not be positive")
	}
}

func TestNotional_ZeroValueIsCappedAtZero(t *testing.T) {
	var n Notional
	if n.IsUnbounded() {
		t.Error("Zero value must not be unbounded")
	}
	if n.IsPositive() {
		t.Error("Zero value must not be positive")
	}
	if got := n.Cap(10); got != 0 {
		t.Errorf("Zero value Cap(10) = %f, want 0", got)
	}
}
