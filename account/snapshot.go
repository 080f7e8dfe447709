package account

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rustyeddy/odyssey/ledger"
)

// Preferences are the user-facing settings carried in a session snapshot
// alongside the account state.
type Preferences struct {
	Watchlist []string `json:"watchlist"`
	Symbol    string   `json:"symbol"`
}

// Snapshot is the persisted form of a session: cash, open positions, the
// full trade ledger, and preferences. Save and restore are a lossless
// round trip of these fields.
type Snapshot struct {
	SavedAt     time.Time            `json:"saved_at"`
	CashBalance float64              `json:"cash_balance"`
	Positions   []Position           `json:"portfolio"`
	Trades      []ledger.TradeRecord `json:"trade_history"`
	Preferences Preferences          `json:"preferences"`
}

// Snapshot captures the current account state together with prefs.
func (a *Account) Snapshot(prefs Preferences) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	positions := make([]Position, 0, len(a.positions))
	for _, pos := range a.positions {
		positions = append(positions, *pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})

	return Snapshot{
		SavedAt:     a.now(),
		CashBalance: a.cash,
		Positions:   positions,
		Trades:      a.ledger.Records(),
		Preferences: prefs,
	}
}

// Restore replaces the account state with the snapshot's. The snapshot is
// validated in full before anything is touched: a malformed snapshot is
// rejected and the in-memory state stays exactly as it was.
func (a *Account) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cash = s.CashBalance
	a.positions = make(map[string]*Position, len(s.Positions))
	for _, pos := range s.Positions {
		p := pos
		a.positions[p.Symbol] = &p
	}
	a.ledger.Restore(s.Trades)

	return nil
}

// Validate checks every field a restore would import.
func (s Snapshot) Validate() error {
	if s.CashBalance < 0 {
		return fmt.Errorf("negative cash balance %.2f", s.CashBalance)
	}

	seen := make(map[string]bool, len(s.Positions))
	for _, pos := range s.Positions {
		if pos.Symbol == "" {
			return fmt.Errorf("position with empty symbol")
		}
		if seen[pos.Symbol] {
			return fmt.Errorf("duplicate position %s", pos.Symbol)
		}
		seen[pos.Symbol] = true

		if pos.Shares <= 0 {
			return fmt.Errorf("position %s: shares must be positive, got %d", pos.Symbol, pos.Shares)
		}
		if pos.AvgPrice <= 0 {
			return fmt.Errorf("position %s: avg price must be positive, got %.4f", pos.Symbol, pos.AvgPrice)
		}
		if pos.StopLoss != nil && *pos.StopLoss <= 0 {
			return fmt.Errorf("position %s: stop-loss must be positive", pos.Symbol)
		}
		if pos.TakeProfit != nil && *pos.TakeProfit <= 0 {
			return fmt.Errorf("position %s: take-profit must be positive", pos.Symbol)
		}
	}

	for i, rec := range s.Trades {
		if rec.Side != ledger.Buy && rec.Side != ledger.Sell {
			return fmt.Errorf("trade %d: unknown side %q", i, rec.Side)
		}
		if rec.Symbol == "" {
			return fmt.Errorf("trade %d: empty symbol", i)
		}
		if rec.Shares <= 0 {
			return fmt.Errorf("trade %d: shares must be positive, got %d", i, rec.Shares)
		}
		if rec.Price <= 0 {
			return fmt.Errorf("trade %d: price must be positive, got %.4f", i, rec.Price)
		}
		if rec.Side == ledger.Buy && rec.ProfitLoss != 0 {
			return fmt.Errorf("trade %d: buy with non-zero profit/loss", i)
		}
	}

	return nil
}

// WriteFile saves the snapshot as indented JSON.
func WriteFile(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadFile loads and validates a snapshot from disk. A snapshot that does
// not parse or validate is rejected whole.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	return s, nil
}
