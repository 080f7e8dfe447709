// Package ledger is the append-only trade history: an in-memory record
// store the account mutates, plus durable journal backends (SQLite, CSV)
// behind the Recorder interface.
package ledger

import (
	"time"
)

// Side is the direction of an executed trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Trigger reasons recorded on automatic liquidations. Manual trades carry
// an empty Reason.
const (
	ReasonStopLoss   = "StopLoss"
	ReasonTakeProfit = "TakeProfit"
)

// TradeRecord is one executed trade. Records are immutable once appended.
// ProfitLoss is always 0 for a BUY; for a SELL it is
// (execution price - average cost) * shares.
type TradeRecord struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"timestamp"`
	Side       Side      `json:"type"`
	Symbol     string    `json:"symbol"`
	Shares     int       `json:"shares"`
	Price      float64   `json:"price"`
	ProfitLoss float64   `json:"profit_loss"`
	Reason     string    `json:"reason,omitempty"`
}

// Recorder is a durable journal for executed trades. The in-memory Ledger
// is the session's source of truth; a Recorder mirrors it to disk.
type Recorder interface {
	Record(TradeRecord) error
	Close() error
}

// Ledger holds the ordered trade history for one session. It is a plain
// data store: the owning Account serializes access.
type Ledger struct {
	records []TradeRecord
}

func New() *Ledger {
	return &Ledger{}
}

// Append adds a record to the end of the history.
func (l *Ledger) Append(rec TradeRecord) {
	l.records = append(l.records, rec)
}

// Records returns a copy of the full history, oldest first.
func (l *Ledger) Records() []TradeRecord {
	out := make([]TradeRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Len() int { return len(l.records) }

// Sells returns all SELL records, oldest first.
func (l *Ledger) Sells() []TradeRecord {
	var out []TradeRecord
	for _, rec := range l.records {
		if rec.Side == Sell {
			out = append(out, rec)
		}
	}
	return out
}

// Get returns the record with the given ID.
func (l *Ledger) Get(id string) (TradeRecord, bool) {
	for _, rec := range l.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return TradeRecord{}, false
}

// LastBuyBefore returns the most recent BUY for symbol strictly before t.
// This is the matching rule trade analysis uses to pair a sell with the
// entry that produced it.
func (l *Ledger) LastBuyBefore(symbol string, t time.Time) (TradeRecord, bool) {
	return LastBuyBefore(l.records, symbol, t)
}

// LastBuyBefore scans records (oldest first) for the most recent BUY of
// symbol strictly before t.
func LastBuyBefore(records []TradeRecord, symbol string, t time.Time) (TradeRecord, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Side == Buy && rec.Symbol == symbol && rec.Time.Before(t) {
			return rec, true
		}
	}
	return TradeRecord{}, false
}

// Restore replaces the history wholesale. Used by session snapshot load;
// the caller validates the records first.
func (l *Ledger) Restore(records []TradeRecord) {
	l.records = make([]TradeRecord, len(records))
	copy(l.records, records)
}
