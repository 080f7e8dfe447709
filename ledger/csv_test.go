package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSVRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	assert.NoError(t, err)

	rec := TradeRecord{
		ID:         "01TESTULID",
		Time:       time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC),
		Side:       Buy,
		Symbol:     "NVDA",
		Shares:     100,
		Price:      120.50,
	}
	assert.NoError(t, j.Record(rec))
	assert.NoError(t, j.Close())

	f, err := os.Open(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, []string{
		"01TESTULID", "2026-01-05T14:30:00Z", "BUY", "NVDA", "100", "120.50", "0.00", "",
	}, rows[1])
}

func TestCSVReopenAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	assert.NoError(t, err)
	assert.NoError(t, j.Record(TradeRecord{
		ID: "t1", Time: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		Side: Buy, Symbol: "NVDA", Shares: 10, Price: 100,
	}))
	assert.NoError(t, j.Close())

	// A later invocation reopens the same journal; earlier trades must
	// survive and no second header row appears.
	j, err = NewCSV(path)
	assert.NoError(t, err)
	assert.NoError(t, j.Record(TradeRecord{
		ID: "t2", Time: time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC),
		Side: Sell, Symbol: "NVDA", Shares: 10, Price: 110, ProfitLoss: 100,
	}))
	assert.NoError(t, j.Close())

	f, err := os.Open(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "t1", rows[1][0])
	assert.Equal(t, "t2", rows[2][0])
}
