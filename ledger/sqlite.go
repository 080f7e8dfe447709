package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	shares INTEGER NOT NULL,
	price REAL NOT NULL,
	profit_loss REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
`

// SQLite journals executed trades to a SQLite database and answers
// history queries across sessions.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Record(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, side, symbol, shares, price, profit_loss, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Time, string(t.Side), t.Symbol,
		t.Shares, t.Price, t.ProfitLoss, t.Reason,
	)
	return err
}

// GetTrade returns a single journaled trade by ID.
func (j *SQLite) GetTrade(id string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, time, side, symbol, shares, price, profit_loss, reason
		FROM trades
		WHERE trade_id = ?`, id)

	rec, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q not found", id)
	}
	return rec, err
}

// ListTradesBetween returns trades executed within [start, end), oldest
// first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, time, side, symbol, shares, price, profit_loss, reason
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// ListTradesBySymbol returns all journaled trades for one symbol, oldest
// first.
func (j *SQLite) ListTradesBySymbol(symbol string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, time, side, symbol, shares, price, profit_loss, reason
		FROM trades
		WHERE symbol = ?
		ORDER BY time ASC`, symbol)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	var side string
	err := s.Scan(
		&rec.ID,
		&rec.Time,
		&side,
		&rec.Symbol,
		&rec.Shares,
		&rec.Price,
		&rec.ProfitLoss,
		&rec.Reason,
	)
	rec.Side = Side(side)
	return rec, err
}

func collectTrades(rows *sql.Rows) ([]TradeRecord, error) {
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
