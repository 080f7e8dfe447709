package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rec(id string, side Side, symbol string, minuteOffset int) TradeRecord {
	base := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	return TradeRecord{
		ID:     id,
		Time:   base.Add(time.Duration(minuteOffset) * time.Minute),
		Side:   side,
		Symbol: symbol,
		Shares: 10,
		Price:  100,
	}
}

func TestLedgerAppendAndQuery(t *testing.T) {
	l := New()
	l.Append(rec("t1", Buy, "NVDA", 0))
	l.Append(rec("t2", Buy, "AAPL", 1))
	l.Append(rec("t3", Sell, "NVDA", 2))

	assert.Equal(t, 3, l.Len())

	got, ok := l.Get("t2")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", got.Symbol)

	_, ok = l.Get("nope")
	assert.False(t, ok)

	sells := l.Sells()
	assert.Len(t, sells, 1)
	assert.Equal(t, "t3", sells[0].ID)
}

func TestRecordsReturnsCopy(t *testing.T) {
	l := New()
	l.Append(rec("t1", Buy, "NVDA", 0))

	records := l.Records()
	records[0].Symbol = "MUTATED"

	fresh := l.Records()
	assert.Equal(t, "NVDA", fresh[0].Symbol)
}

func TestLastBuyBefore(t *testing.T) {
	l := New()
	l.Append(rec("b1", Buy, "NVDA", 0))
	l.Append(rec("b2", Buy, "NVDA", 10))
	l.Append(rec("b3", Buy, "AAPL", 20))
	l.Append(rec("s1", Sell, "NVDA", 30))

	sell, _ := l.Get("s1")

	// Most recent NVDA buy strictly before the sell
	buy, ok := l.LastBuyBefore("NVDA", sell.Time)
	assert.True(t, ok)
	assert.Equal(t, "b2", buy.ID)

	// A buy at exactly the sell time does not match
	_, ok = l.LastBuyBefore("NVDA", rec("", Buy, "", 0).Time)
	assert.False(t, ok)

	_, ok = l.LastBuyBefore("TSLA", sell.Time)
	assert.False(t, ok)
}
