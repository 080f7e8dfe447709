package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name='trades'`)
	assert.NoError(t, err)
	defer rows.Close()

	assert.True(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestSQLiteRecordAndGet(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := TradeRecord{
		ID:         "01TESTULID",
		Time:       time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC),
		Side:       Sell,
		Symbol:     "NVDA",
		Shares:     200,
		Price:      51.00,
		ProfitLoss: -800,
		Reason:     ReasonStopLoss,
	}

	assert.NoError(t, j.Record(rec))

	got, err := j.GetTrade("01TESTULID")
	assert.NoError(t, err)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Side, got.Side)
	assert.Equal(t, rec.Shares, got.Shares)
	assert.Equal(t, rec.ProfitLoss, got.ProfitLoss)
	assert.Equal(t, rec.Reason, got.Reason)
	assert.True(t, rec.Time.Equal(got.Time))

	_, err = j.GetTrade("missing")
	assert.Error(t, err)
}

func TestSQLiteQueries(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	records := []TradeRecord{
		{ID: "a", Time: day.Add(10 * time.Hour), Side: Buy, Symbol: "NVDA", Shares: 10, Price: 100},
		{ID: "b", Time: day.Add(11 * time.Hour), Side: Buy, Symbol: "AAPL", Shares: 5, Price: 180},
		{ID: "c", Time: day.Add(26 * time.Hour), Side: Sell, Symbol: "NVDA", Shares: 10, Price: 110, ProfitLoss: 100},
	}
	for _, rec := range records {
		assert.NoError(t, j.Record(rec))
	}

	sameDay, err := j.ListTradesBetween(day, day.Add(24*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, sameDay, 2)

	nvda, err := j.ListTradesBySymbol("NVDA")
	assert.NoError(t, err)
	assert.Len(t, nvda, 2)
	assert.Equal(t, "a", nvda[0].ID)
	assert.Equal(t, "c", nvda[1].ID)
}
