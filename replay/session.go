// Package replay implements the historical practice mode: an isolated
// paper-trading session that steps through a pre-fetched bar sequence one
// day at a time, with its own cash, portfolio, and ledger. A replay
// session never touches the live account.
package replay

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/odyssey/account"
	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
)

var (
	// ErrNoHistoricalData rejects starting a session with no bars.
	ErrNoHistoricalData = errors.New("no historical data")

	// ErrEndOfHistory is returned by Advance at the last bar. It is
	// non-fatal: the session stays usable at its current day.
	ErrEndOfHistory = errors.New("end of historical data")

	// ErrSessionEnded rejects any operation after End.
	ErrSessionEnded = errors.New("practice session has ended")
)

const (
	// DefaultStartCursor places the learner mid-history so the chart has
	// prior context to read.
	DefaultStartCursor = 50

	DefaultStartingCash = 100_000
)

// Options tunes a new session. Zero values take the defaults above.
type Options struct {
	StartCursor  int
	StartingCash float64
}

// Session is the practice-mode state machine: Active from Start until
// End, advancing its cursor monotonically through the bar sequence. The
// trade book is its own Account instance with an always-open clock, so
// the live account's rules apply but its state never mixes in.
type Session struct {
	symbol string
	bars   []market.Candle
	cursor int
	book   *account.Account
	ended  bool
}

// Start creates a practice session over bars, which must be ordered
// oldest first and non-empty. The cursor starts at opts.StartCursor,
// clamped to the last bar when the sequence is shorter.
func Start(symbol string, bars []market.Candle, opts Options) (*Session, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("start practice %s: %w", symbol, ErrNoHistoricalData)
	}

	cursor := opts.StartCursor
	if cursor <= 0 {
		cursor = DefaultStartCursor
	}
	if cursor > len(bars)-1 {
		cursor = len(bars) - 1
	}

	cash := opts.StartingCash
	if cash <= 0 {
		cash = DefaultStartingCash
	}

	own := make([]market.Candle, len(bars))
	copy(own, bars)

	return &Session{
		symbol: symbol,
		bars:   own,
		cursor: cursor,
		book:   account.New(cash, market.AlwaysOpen),
	}, nil
}

func (s *Session) Symbol() string { return s.symbol }

// Day is the zero-based index of the current bar.
func (s *Session) Day() int { return s.cursor }

// CurrentBar returns the bar at the cursor.
func (s *Session) CurrentBar() market.Candle { return s.bars[s.cursor] }

// Price is the current simulated price: the close of the cursor bar.
func (s *Session) Price() float64 { return s.bars[s.cursor].Close }

// VisibleBars returns a copy of the bars up to and including the cursor.
// Bars beyond the cursor stay hidden until Advance reveals them.
func (s *Session) VisibleBars() []market.Candle {
	out := make([]market.Candle, s.cursor+1)
	copy(out, s.bars[:s.cursor+1])
	return out
}

// Advance moves the session to the next day. At the last bar it returns
// ErrEndOfHistory and leaves the cursor unchanged.
func (s *Session) Advance() error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.cursor >= len(s.bars)-1 {
		return ErrEndOfHistory
	}
	s.cursor++
	return nil
}

// Buy purchases shares at the current day's close, against the session's
// own cash. The live account's funds rules apply unchanged.
func (s *Session) Buy(shares int) (ledger.TradeRecord, error) {
	if s.ended {
		return ledger.TradeRecord{}, ErrSessionEnded
	}
	return s.book.PlaceBuy(s.symbol, shares, s.Price(), nil, nil)
}

// Sell sells shares at the current day's close.
func (s *Session) Sell(shares int) (ledger.TradeRecord, error) {
	if s.ended {
		return ledger.TradeRecord{}, ErrSessionEnded
	}
	return s.book.PlaceSell(s.symbol, shares, s.Price())
}

// End finishes the session. Every subsequent operation fails with
// ErrSessionEnded.
func (s *Session) End() {
	s.ended = true
}

func (s *Session) Ended() bool { return s.ended }

// Cash returns the session's own cash balance.
func (s *Session) Cash() float64 { return s.book.Cash() }

// Positions returns a copy of the session's open holdings.
func (s *Session) Positions() map[string]account.Position { return s.book.Positions() }

// Trades returns a copy of the session's trade history.
func (s *Session) Trades() []ledger.TradeRecord { return s.book.Trades() }
