package domain

import (
	"testing"
	"time"
)

func TestLimitEvent_Covers(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	bounded := &LimitEvent{Ticker: "161005", StartDate: start, EndDate: &end, MaxAmount: 100}

	if bounded.Covers(start.AddDate(0, 0, -1)) {
		t.Error("Must not cover before start")
	}
	if !bounded.Covers(start) {
		t.Error("Must cover start date")
	}
	if !bounded.Covers(end) {
		t.Error("Must cover end date")
	}
	if bounded.Covers(end.AddDate(0, 0, 1)) {
		t.Error("Must not cover after end")
	}
}

func TestLimitEvent_OpenEnded(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	open := &LimitEvent{Ticker: "161005", StartDate: start, MaxAmount: 100}

	if open.Covers(start.AddDate(0, 0, -1)) {
		t.Error("Must not cover before start")
	}
	if !open.Covers(start.AddDate(1, 0, 0)) {
		t.Error("Open-ended limit must cover any date after start")
	}
}
