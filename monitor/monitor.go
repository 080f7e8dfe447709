// Package monitor implements the automatic order-monitoring loop: poll a
// price source for every open position and liquidate positions whose
// stop-loss or take-profit threshold has been reached.
package monitor

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/odyssey/account"
	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
)

// TriggerListener is notified after the monitor auto-closes a position.
// Callbacks run after all accounting work for the cycle is done.
type TriggerListener interface {
	OnPositionClosed(rec ledger.TradeRecord)
}

// Monitor evaluates exit thresholds against live prices. It only ever
// touches the live account it was constructed with.
type Monitor struct {
	acct     *account.Account
	src      market.PriceSource
	clock    market.Clock
	log      zerolog.Logger
	listener TriggerListener
}

func New(acct *account.Account, src market.PriceSource, clock market.Clock) *Monitor {
	return &Monitor{
		acct:  acct,
		src:   src,
		clock: clock,
		log:   zerolog.Nop(),
	}
}

func (m *Monitor) SetLogger(log zerolog.Logger) { m.log = log }

// SetListener registers an optional callback for auto-closed positions.
func (m *Monitor) SetListener(l TriggerListener) { m.listener = l }

// Check runs one polling cycle and reports whether any position was
// liquidated. When the market is closed the cycle is a no-op, even if
// thresholds are breached. A symbol whose price is unavailable is skipped
// without error.
//
// Stop-loss is evaluated before take-profit: on a position where both
// thresholds would trigger, stop-loss wins. Triggers always liquidate the
// entire position.
func (m *Monitor) Check(ctx context.Context) (bool, error) {
	if !m.clock.IsOpen() {
		return false, nil
	}

	// Snapshot the open symbols first; triggers delete portfolio entries
	// while we iterate.
	positions := m.acct.Positions()
	symbols := make([]string, 0, len(positions))
	for sym := range positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var closed []ledger.TradeRecord
	for _, sym := range symbols {
		price, err := m.src.Current(ctx, sym)
		if err != nil {
			m.log.Debug().Err(err).Str("symbol", sym).Msg("price unavailable, skipping")
			continue
		}

		pos := positions[sym]
		var reason string
		switch {
		case pos.HitStopLoss(price):
			reason = ledger.ReasonStopLoss
		case pos.HitTakeProfit(price):
			reason = ledger.ReasonTakeProfit
		default:
			continue
		}

		rec, err := m.acct.ClosePosition(sym, price, reason)
		if err != nil {
			if errors.Is(err, account.ErrNoSuchPosition) {
				continue
			}
			return len(closed) > 0, err
		}

		m.log.Info().
			Str("symbol", sym).
			Str("reason", reason).
			Float64("price", price).
			Float64("profit_loss", rec.ProfitLoss).
			Msg("exit triggered")
		closed = append(closed, rec)
	}

	if m.listener != nil {
		for _, rec := range closed {
			m.listener.OnPositionClosed(rec)
		}
	}

	return len(closed) > 0, nil
}

// Run polls every interval until ctx is canceled. Each tick is one atomic
// Check: cancellation between ticks never leaves a trade half-applied. A
// failed cycle is logged and the loop keeps going.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Check(ctx); err != nil {
				m.log.Error().Err(err).Msg("monitor check failed")
			}
		}
	}
}
