package market

import (
	"context"
	"errors"
	"time"
)

// ErrSourceUnavailable is returned when a market data provider cannot
// deliver the requested data (network failure, unknown symbol, empty
// response). Callers must treat it as absence, never as fatal.
var ErrSourceUnavailable = errors.New("market data source unavailable")

// Range is a lookback window for historical candles, e.g. "1mo", "1y".
type Range string

const (
	Range1D  Range = "1d"
	Range5D  Range = "5d"
	Range1Mo Range = "1mo"
	Range6Mo Range = "6mo"
	Range1Y  Range = "1y"
	Range2Y  Range = "2y"
	Range5Y  Range = "5y"
	RangeMax Range = "max"
)

// Interval is the candle granularity, e.g. "1d" for daily bars.
type Interval string

const (
	Interval1M  Interval = "1m"
	Interval5M  Interval = "5m"
	Interval15M Interval = "15m"
	Interval30M Interval = "30m"
	Interval1H  Interval = "1h"
	Interval1D  Interval = "1d"
	Interval1Wk Interval = "1wk"
)

// CandlesRequest describes a historical bar fetch. Either Range or an
// explicit From/To window may be given; From/To wins when both are set.
type CandlesRequest struct {
	Symbol   string
	Range    Range
	Interval Interval
	From     *time.Time
	To       *time.Time
}

// NewsItem is one headline for a symbol.
type NewsItem struct {
	Title     string
	Link      string
	Publisher string
	Published time.Time
}

// PriceSource provides market data. All methods may fail with (an error
// wrapping) ErrSourceUnavailable; callers degrade gracefully.
type PriceSource interface {
	// Current returns the latest trade price for the symbol.
	Current(ctx context.Context, symbol string) (float64, error)

	// Candles returns OHLCV bars ordered oldest first.
	Candles(ctx context.Context, req CandlesRequest) ([]Candle, error)

	// News returns recent headlines for the symbol, newest first.
	News(ctx context.Context, symbol string) ([]NewsItem, error)
}
