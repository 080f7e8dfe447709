package market

import (
	"testing"
	"time"
)

func TestCloses(t *testing.T) {
	base := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
	candles := []Candle{
		{Time: base, Close: 10},
		{Time: base.AddDate(0, 0, 1), Close: 11},
		{Time: base.AddDate(0, 0, 2), Close: 12},
	}

	closes := Closes(candles)
	if len(closes) != 3 || closes[0] != 10 || closes[2] != 12 {
		t.Fatalf("closes: %v", closes)
	}
}

func TestMaxHigh(t *testing.T) {
	base := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
	candles := []Candle{
		{Time: base, High: 50},
		{Time: base.AddDate(0, 0, 1), High: 90},
		{Time: base.AddDate(0, 0, 2), High: 70},
		{Time: base.AddDate(0, 0, 3), High: 120}, // outside the window
	}

	got, ok := MaxHigh(candles, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2))
	if !ok || got != 90 {
		t.Fatalf("max high: got %.2f (ok=%v) want 90", got, ok)
	}

	// A window with no candles reports absence, not zero.
	if got, ok := MaxHigh(candles, base.AddDate(0, 0, 10), base.AddDate(0, 0, 20)); ok {
		t.Fatalf("empty window: got %.2f, want no value", got)
	}
}
