// Package account implements the virtual trading account: cash balance,
// open positions, and the trade ledger, composed as one consistency unit.
// Every operation is all-or-nothing under the account lock.
package account

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
	"github.com/rustyeddy/odyssey/pkg/id"
)

// Account owns the session's cash, portfolio, and ledger. Construct it at
// session start and pass it into every operation; there is no ambient
// global state.
type Account struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]*Position
	ledger    *ledger.Ledger
	clock     market.Clock
	rec       ledger.Recorder
	log       zerolog.Logger
	now       func() time.Time
}

func New(startingCash float64, clock market.Clock) *Account {
	return &Account{
		cash:      startingCash,
		positions: make(map[string]*Position),
		ledger:    ledger.New(),
		clock:     clock,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
}

// SetRecorder mirrors every executed trade to a durable journal. Recorder
// failures are logged, never surfaced: a journal hiccup must not reject a
// trade that has already been applied.
func (a *Account) SetRecorder(rec ledger.Recorder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rec = rec
}

func (a *Account) SetLogger(log zerolog.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = log
}

// PlaceBuy executes a market buy of shares at price, optionally attaching
// stop-loss / take-profit exit thresholds.
//
// Rejections: ErrMarketClosed; ErrInvalidOrder when shares or price are
// not positive, stopLoss >= price, or takeProfit <= price;
// ErrInsufficientFunds when shares*price exceeds cash. Buys are never
// partially filled.
//
// A repeat buy merges into the existing position at the volume-weighted
// average price. The order's thresholds replace the position's previous
// ones, including clearing them when omitted.
func (a *Account) PlaceBuy(symbol string, shares int, price float64, stopLoss, takeProfit *float64) (ledger.TradeRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.clock.IsOpen() {
		return ledger.TradeRecord{}, fmt.Errorf("buy %s: %w", symbol, ErrMarketClosed)
	}
	if symbol == "" || shares <= 0 || price <= 0 {
		return ledger.TradeRecord{}, fmt.Errorf("buy %s: %w: need positive shares and price", symbol, ErrInvalidOrder)
	}
	if stopLoss != nil && *stopLoss >= price {
		return ledger.TradeRecord{}, fmt.Errorf("buy %s: %w: stop-loss %.2f must be below price %.2f", symbol, ErrInvalidOrder, *stopLoss, price)
	}
	if takeProfit != nil && *takeProfit <= price {
		return ledger.TradeRecord{}, fmt.Errorf("buy %s: %w: take-profit %.2f must be above price %.2f", symbol, ErrInvalidOrder, *takeProfit, price)
	}

	cost := price * float64(shares)
	if cost > a.cash {
		return ledger.TradeRecord{}, fmt.Errorf("buy %s: %w: cost %.2f exceeds cash %.2f", symbol, ErrInsufficientFunds, cost, a.cash)
	}

	a.cash -= cost

	pos, ok := a.positions[symbol]
	if ok {
		oldCost := pos.AvgPrice * float64(pos.Shares)
		pos.Shares += shares
		pos.AvgPrice = (oldCost + cost) / float64(pos.Shares)
	} else {
		pos = &Position{Symbol: symbol, Shares: shares, AvgPrice: price}
		a.positions[symbol] = pos
	}
	pos.StopLoss = stopLoss
	pos.TakeProfit = takeProfit

	rec := ledger.TradeRecord{
		ID:     id.New(),
		Time:   a.now(),
		Side:   ledger.Buy,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
	}
	a.recordLocked(rec)

	return rec, nil
}

// PlaceSell executes a market sell of shares at price.
//
// Rejections: ErrMarketClosed; ErrNoSuchPosition when the symbol is not
// held; ErrInsufficientShares when shares exceeds the held amount. Selling
// the full position removes it, discarding its thresholds.
func (a *Account) PlaceSell(symbol string, shares int, price float64) (ledger.TradeRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.clock.IsOpen() {
		return ledger.TradeRecord{}, fmt.Errorf("sell %s: %w", symbol, ErrMarketClosed)
	}
	return a.sellLocked(symbol, shares, price, "")
}

// ClosePosition liquidates the entire position at price, tagging the
// ledger record with the triggering reason. This is the order monitor's
// exit path: the monitor has already confirmed the market is open, so no
// clock check is repeated here.
func (a *Account) ClosePosition(symbol string, price float64, reason string) (ledger.TradeRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.positions[symbol]
	if !ok {
		return ledger.TradeRecord{}, fmt.Errorf("close %s: %w", symbol, ErrNoSuchPosition)
	}
	return a.sellLocked(symbol, pos.Shares, price, reason)
}

func (a *Account) sellLocked(symbol string, shares int, price float64, reason string) (ledger.TradeRecord, error) {
	if shares <= 0 || price <= 0 {
		return ledger.TradeRecord{}, fmt.Errorf("sell %s: %w: need positive shares and price", symbol, ErrInvalidOrder)
	}

	pos, ok := a.positions[symbol]
	if !ok {
		return ledger.TradeRecord{}, fmt.Errorf("sell %s: %w", symbol, ErrNoSuchPosition)
	}
	if shares > pos.Shares {
		return ledger.TradeRecord{}, fmt.Errorf("sell %s: %w: want %d, holding %d", symbol, ErrInsufficientShares, shares, pos.Shares)
	}

	a.cash += price * float64(shares)
	pl := (price - pos.AvgPrice) * float64(shares)

	pos.Shares -= shares
	if pos.Shares == 0 {
		delete(a.positions, symbol)
	}

	rec := ledger.TradeRecord{
		ID:         id.New(),
		Time:       a.now(),
		Side:       ledger.Sell,
		Symbol:     symbol,
		Shares:     shares,
		Price:      price,
		ProfitLoss: pl,
		Reason:     reason,
	}
	a.recordLocked(rec)

	return rec, nil
}

func (a *Account) recordLocked(rec ledger.TradeRecord) {
	a.ledger.Append(rec)

	if a.rec == nil {
		return
	}
	if err := a.rec.Record(rec); err != nil {
		a.log.Warn().Err(err).
			Str("trade_id", rec.ID).
			Str("symbol", rec.Symbol).
			Msg("journal write failed")
	}
}

// TotalEquity returns cash plus the market value of every open position,
// priced through lookup. When lookup fails for a symbol the position is
// valued at its average cost instead; TotalEquity itself never fails.
func (a *Account) TotalEquity(lookup func(symbol string) (float64, error)) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	equity := a.cash
	for sym, pos := range a.positions {
		price := pos.AvgPrice
		if lookup != nil {
			if p, err := lookup(sym); err == nil {
				price = p
			}
		}
		equity += pos.MarketValue(price)
	}
	return equity
}

// Cash returns the current cash balance.
func (a *Account) Cash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash
}

// Position returns a copy of the open position for symbol, if any.
func (a *Account) Position(symbol string) (Position, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns a copy of the open portfolio keyed by symbol.
func (a *Account) Positions() map[string]Position {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]Position, len(a.positions))
	for sym, pos := range a.positions {
		out[sym] = *pos
	}
	return out
}

// Trades returns a copy of the session trade history, oldest first.
func (a *Account) Trades() []ledger.TradeRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Records()
}
