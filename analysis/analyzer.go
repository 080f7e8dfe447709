// Package analysis grades completed trades after the fact: how good the
// entry was (RSI at the buy date) and how much of the available move the
// trade actually captured. Reports are read-only; nothing here mutates
// the portfolio or the ledger.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/odyssey/indicators"
	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
)

// ErrNoMatchingBuy means no BUY for the symbol precedes the sell being
// analyzed, so there is no entry to grade.
var ErrNoMatchingBuy = errors.New("no matching buy trade")

// Entry quality classes, keyed off RSI at the buy date.
const (
	EntryOversold   = "good entry (oversold)"
	EntryOverbought = "poor entry (overbought)"
	EntryNeutral    = "neutral entry"
)

const (
	rsiPeriod     = 14
	oversoldRSI   = 35
	overboughtRSI = 65
)

// Report is the outcome of analyzing one completed (buy, sell) pair.
type Report struct {
	Symbol   string
	BuyTime  time.Time
	SellTime time.Time
	BuyPrice float64
	Shares   int

	EntryRSI   float64
	EntryClass string

	RealizedPL float64

	// MaxHigh and PotentialProfit are only meaningful when HighKnown is
	// true; a bar gap over the holding window leaves them zero.
	HighKnown       bool
	MaxHigh         float64
	PotentialProfit float64
}

// Analyze grades the sell against its matching buy: the most recent BUY
// for the same symbol strictly preceding the sell. bars must be daily
// candles spanning at least rsiPeriod+1 days before the buy through the
// sell date.
func Analyze(sell ledger.TradeRecord, history []ledger.TradeRecord, bars []market.Candle) (Report, error) {
	if sell.Side != ledger.Sell {
		return Report{}, fmt.Errorf("analyze %s: record %s is not a sell", sell.Symbol, sell.ID)
	}

	buy, ok := ledger.LastBuyBefore(history, sell.Symbol, sell.Time)
	if !ok {
		return Report{}, fmt.Errorf("analyze %s: %w", sell.Symbol, ErrNoMatchingBuy)
	}

	buyDayEnd := endOfDay(buy.Time)

	// RSI at the buy date uses every bar up to and including that day.
	var upToBuy []market.Candle
	for _, c := range bars {
		if c.Time.After(buyDayEnd) {
			break
		}
		upToBuy = append(upToBuy, c)
	}

	rsi, err := indicators.RSI(upToBuy, rsiPeriod)
	if err != nil {
		return Report{}, fmt.Errorf("analyze %s: rsi at entry: %w", sell.Symbol, err)
	}

	class := EntryNeutral
	switch {
	case rsi < oversoldRSI:
		class = EntryOversold
	case rsi > overboughtRSI:
		class = EntryOverbought
	}

	maxHigh, highKnown := market.MaxHigh(bars, startOfDay(buy.Time), endOfDay(sell.Time))
	var potential float64
	if highKnown {
		potential = (maxHigh - buy.Price) * float64(sell.Shares)
	}

	return Report{
		Symbol:          sell.Symbol,
		BuyTime:         buy.Time,
		SellTime:        sell.Time,
		BuyPrice:        buy.Price,
		Shares:          sell.Shares,
		EntryRSI:        rsi,
		EntryClass:      class,
		RealizedPL:      sell.ProfitLoss,
		HighKnown:       highKnown,
		MaxHigh:         maxHigh,
		PotentialProfit: potential,
	}, nil
}

// Analyzer fetches the historical bars an analysis needs from a price
// source and delegates to Analyze.
type Analyzer struct {
	src market.PriceSource
}

func NewAnalyzer(src market.PriceSource) *Analyzer {
	return &Analyzer{src: src}
}

// AnalyzeTrade fetches daily bars from one year before the matching buy
// through one day after the sell, then runs the analysis.
func (a *Analyzer) AnalyzeTrade(ctx context.Context, sell ledger.TradeRecord, history []ledger.TradeRecord) (Report, error) {
	buy, ok := ledger.LastBuyBefore(history, sell.Symbol, sell.Time)
	if !ok {
		return Report{}, fmt.Errorf("analyze %s: %w", sell.Symbol, ErrNoMatchingBuy)
	}

	from := buy.Time.AddDate(-1, 0, 0)
	to := sell.Time.AddDate(0, 0, 1)

	bars, err := a.src.Candles(ctx, market.CandlesRequest{
		Symbol:   sell.Symbol,
		Interval: market.Interval1D,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		return Report{}, fmt.Errorf("analyze %s: fetch bars: %w", sell.Symbol, err)
	}

	return Analyze(sell, history, bars)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
