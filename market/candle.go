package market

import "time"

// Candle represents one OHLCV (Open, High, Low, Close, Volume) bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Closes extracts the close prices from a bar sequence, oldest first.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// MaxHigh returns the highest High over candles in [start, end] inclusive.
// Candles outside the window are ignored. The second return is false when
// no candle falls inside the window, so callers can tell a data gap from
// a real zero.
func MaxHigh(candles []Candle, start, end time.Time) (float64, bool) {
	var max float64
	found := false
	for _, c := range candles {
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		if !found || c.High > max {
			max = c.High
			found = true
		}
	}
	return max, found
}
