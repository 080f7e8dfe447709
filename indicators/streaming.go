package indicators

import (
	"fmt"

	"github.com/rustyeddy/odyssey/market"
)

// SimpleMA is a streaming Simple Moving Average indicator.
type SimpleMA struct {
	period  int
	candles []market.Candle
}

func NewSMA(period int) *SimpleMA {
	return &SimpleMA{
		period:  period,
		candles: make([]market.Candle, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.candles = m.candles[:0]
}

func (m *SimpleMA) Update(c market.Candle) {
	m.candles = append(m.candles, c)
	if len(m.candles) > m.period {
		m.candles = m.candles[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.candles) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, candle := range m.candles {
		sum += candle.Close
	}
	return sum / float64(len(m.candles))
}

// ExponentialMA is a streaming Exponential Moving Average indicator.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(c market.Candle) {
	if e.count < e.period {
		// During warmup, accumulate sum for the initial SMA seed
		e.warmupSum += c.Close
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		e.ema = (c.Close-e.ema)*e.multiplier + e.ema
	}
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

// RelativeStrength is a streaming RSI indicator with Wilder smoothing.
type RelativeStrength struct {
	period    int
	avgGain   float64
	avgLoss   float64
	prevClose float64
	count     int
}

func NewRSI(period int) *RelativeStrength {
	return &RelativeStrength{period: period}
}

func (r *RelativeStrength) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RelativeStrength) Warmup() int {
	// First value needs period changes, so period+1 closes.
	return r.period + 1
}

func (r *RelativeStrength) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.prevClose = 0
	r.count = 0
}

func (r *RelativeStrength) Update(c market.Candle) {
	r.count++
	if r.count == 1 {
		r.prevClose = c.Close
		return
	}

	change := c.Close - r.prevClose
	r.prevClose = c.Close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count <= r.period+1 {
		// Seed averages from the first period changes
		r.avgGain += gain / float64(r.period)
		r.avgLoss += loss / float64(r.period)
		return
	}

	r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
}

func (r *RelativeStrength) Ready() bool {
	return r.count >= r.period+1
}

func (r *RelativeStrength) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
