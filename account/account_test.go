package account

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
)

var (
	openMarket   = market.ClockFunc(func() bool { return true })
	closedMarket = market.ClockFunc(func() bool { return false })
)

func newAccount(t *testing.T, cash float64) *Account {
	t.Helper()
	return New(cash, openMarket)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func fp(v float64) *float64 { return &v }

func TestBuyDebitsCashAndOpensPosition(t *testing.T) {
	a := newAccount(t, 100_000)

	rec, err := a.PlaceBuy("XYZ", 100, 50.00, nil, nil)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	if !approxEqual(a.Cash(), 95_000, 1e-9) {
		t.Fatalf("cash mismatch: got %.2f", a.Cash())
	}

	pos, ok := a.Position("XYZ")
	if !ok {
		t.Fatalf("expected open position")
	}
	if pos.Shares != 100 || !approxEqual(pos.AvgPrice, 50.00, 1e-9) {
		t.Fatalf("position mismatch: %+v", pos)
	}

	if rec.Side != ledger.Buy || rec.ProfitLoss != 0 {
		t.Fatalf("buy record mismatch: %+v", rec)
	}
	if rec.ID == "" {
		t.Fatalf("expected trade ID")
	}
}

func TestMergeBuyVolumeWeightsAvgPrice(t *testing.T) {
	a := newAccount(t, 100_000)

	if _, err := a.PlaceBuy("XYZ", 100, 50.00, nil, nil); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	if _, err := a.PlaceBuy("XYZ", 100, 60.00, nil, nil); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	pos, _ := a.Position("XYZ")
	if pos.Shares != 200 {
		t.Fatalf("shares: got %d want 200", pos.Shares)
	}
	if !approxEqual(pos.AvgPrice, 55.00, 1e-9) {
		t.Fatalf("avg price: got %.4f want 55.00", pos.AvgPrice)
	}
	if !approxEqual(a.Cash(), 89_000, 1e-9) {
		t.Fatalf("cash: got %.2f want 89000.00", a.Cash())
	}
}

func TestAvgPriceOrderIndependent(t *testing.T) {
	buys := []struct {
		shares int
		price  float64
	}{
		{100, 50}, {50, 80}, {200, 65},
	}

	// Volume-weighted mean of the executed buys
	var totalShares int
	var totalCost float64
	for _, b := range buys {
		totalShares += b.shares
		totalCost += float64(b.shares) * b.price
	}
	want := totalCost / float64(totalShares)

	perms := [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}}
	for _, perm := range perms {
		a := newAccount(t, 1_000_000)
		for _, i := range perm {
			if _, err := a.PlaceBuy("XYZ", buys[i].shares, buys[i].price, nil, nil); err != nil {
				t.Fatalf("buy: %v", err)
			}
		}
		pos, _ := a.Position("XYZ")
		if !approxEqual(pos.AvgPrice, want, 1e-9) {
			t.Fatalf("perm %v: avg %.6f want %.6f", perm, pos.AvgPrice, want)
		}
	}
}

func TestBuyRejectedWhenMarketClosed(t *testing.T) {
	a := New(100_000, closedMarket)

	_, err := a.PlaceBuy("XYZ", 10, 50, nil, nil)
	if !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("want ErrMarketClosed, got %v", err)
	}
	_, err = a.PlaceSell("XYZ", 10, 50)
	if !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("want ErrMarketClosed, got %v", err)
	}
}

func TestBuyRejectsBadThresholds(t *testing.T) {
	a := newAccount(t, 100_000)

	_, err := a.PlaceBuy("XYZ", 10, 50, fp(55), nil)
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("stop above price: want ErrInvalidOrder, got %v", err)
	}
	_, err = a.PlaceBuy("XYZ", 10, 50, nil, fp(45))
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("target below price: want ErrInvalidOrder, got %v", err)
	}

	if a.Cash() != 100_000 || len(a.Positions()) != 0 || len(a.Trades()) != 0 {
		t.Fatalf("rejected order mutated state")
	}
}

func TestInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	a := newAccount(t, 1_000)

	_, err := a.PlaceBuy("XYZ", 100, 50, nil, nil)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if a.Cash() != 1_000 {
		t.Fatalf("cash changed: %.2f", a.Cash())
	}
	if len(a.Positions()) != 0 {
		t.Fatalf("position created on rejected buy")
	}
	if len(a.Trades()) != 0 {
		t.Fatalf("ledger entry on rejected buy")
	}
}

func TestSellPartialKeepsAvgPrice(t *testing.T) {
	a := newAccount(t, 100_000)
	mustBuy(t, a, "XYZ", 100, 50)

	rec, err := a.PlaceSell("XYZ", 40, 60)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	if !approxEqual(rec.ProfitLoss, (60-50)*40, 1e-9) {
		t.Fatalf("P/L: got %.2f", rec.ProfitLoss)
	}

	pos, ok := a.Position("XYZ")
	if !ok {
		t.Fatalf("position should survive a partial sell")
	}
	if pos.Shares != 60 || !approxEqual(pos.AvgPrice, 50, 1e-9) {
		t.Fatalf("position after partial sell: %+v", pos)
	}
}

func TestSellAllRemovesPosition(t *testing.T) {
	a := newAccount(t, 100_000)
	mustBuy(t, a, "XYZ", 100, 50)

	if _, err := a.PlaceSell("XYZ", 100, 55); err != nil {
		t.Fatalf("sell: %v", err)
	}

	if _, ok := a.Position("XYZ"); ok {
		t.Fatalf("position should be removed at zero shares")
	}
}

func TestSellRejections(t *testing.T) {
	a := newAccount(t, 100_000)

	_, err := a.PlaceSell("XYZ", 10, 50)
	if !errors.Is(err, ErrNoSuchPosition) {
		t.Fatalf("want ErrNoSuchPosition, got %v", err)
	}

	mustBuy(t, a, "XYZ", 10, 50)
	_, err = a.PlaceSell("XYZ", 11, 50)
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("want ErrInsufficientShares, got %v", err)
	}

	pos, _ := a.Position("XYZ")
	if pos.Shares != 10 {
		t.Fatalf("rejected sell mutated position: %+v", pos)
	}
}

func TestCashConservation(t *testing.T) {
	a := newAccount(t, 100_000)

	var bought, sold float64

	steps := []struct {
		side   ledger.Side
		shares int
		price  float64
	}{
		{ledger.Buy, 100, 50},
		{ledger.Buy, 50, 44},
		{ledger.Sell, 70, 55},
		{ledger.Buy, 20, 61},
		{ledger.Sell, 100, 48},
	}

	for _, st := range steps {
		if st.side == ledger.Buy {
			mustBuy(t, a, "XYZ", st.shares, st.price)
			bought += float64(st.shares) * st.price
		} else {
			if _, err := a.PlaceSell("XYZ", st.shares, st.price); err != nil {
				t.Fatalf("sell: %v", err)
			}
			sold += float64(st.shares) * st.price
		}
	}

	want := 100_000 - bought + sold
	if !approxEqual(a.Cash(), want, 1e-9) {
		t.Fatalf("cash: got %.6f want %.6f", a.Cash(), want)
	}
}

func TestMergeBuyOverwritesThresholds(t *testing.T) {
	a := newAccount(t, 100_000)

	if _, err := a.PlaceBuy("XYZ", 100, 50, fp(45), fp(60)); err != nil {
		t.Fatalf("buy: %v", err)
	}

	// A later order without thresholds clears the previous ones.
	if _, err := a.PlaceBuy("XYZ", 100, 52, nil, nil); err != nil {
		t.Fatalf("buy: %v", err)
	}

	pos, _ := a.Position("XYZ")
	if pos.StopLoss != nil || pos.TakeProfit != nil {
		t.Fatalf("thresholds should be overwritten by the latest order: %+v", pos)
	}
}

func TestTotalEquityFallsBackToAvgPrice(t *testing.T) {
	a := newAccount(t, 10_000)
	mustBuy(t, a, "AAA", 10, 100) // cash 9000
	mustBuy(t, a, "BBB", 10, 50)  // cash 8500

	equity := a.TotalEquity(func(sym string) (float64, error) {
		if sym == "AAA" {
			return 120, nil
		}
		return 0, fmt.Errorf("quote %s: %w", sym, market.ErrSourceUnavailable)
	})

	want := 8_500 + 10*120.0 + 10*50.0
	if !approxEqual(equity, want, 1e-9) {
		t.Fatalf("equity: got %.2f want %.2f", equity, want)
	}
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(ledger.TradeRecord) error {
	r.calls++
	return fmt.Errorf("disk full")
}
func (r *failingRecorder) Close() error { return nil }

func TestRecorderFailureDoesNotRejectTrade(t *testing.T) {
	a := newAccount(t, 100_000)
	rec := &failingRecorder{}
	a.SetRecorder(rec)

	if _, err := a.PlaceBuy("XYZ", 10, 50, nil, nil); err != nil {
		t.Fatalf("buy should succeed despite journal failure: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recorder not invoked")
	}
	if len(a.Trades()) != 1 {
		t.Fatalf("ledger should hold the trade")
	}
}

func TestTradeTimestampsAreOrdered(t *testing.T) {
	a := newAccount(t, 100_000)

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	step := 0
	a.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	mustBuy(t, a, "XYZ", 10, 50)
	if _, err := a.PlaceSell("XYZ", 10, 55); err != nil {
		t.Fatalf("sell: %v", err)
	}

	trades := a.Trades()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if !trades[0].Time.Before(trades[1].Time) {
		t.Fatalf("ledger out of order: %v then %v", trades[0].Time, trades[1].Time)
	}
}

func mustBuy(t *testing.T, a *Account, symbol string, shares int, price float64) {
	t.Helper()
	if _, err := a.PlaceBuy(symbol, shares, price, nil, nil); err != nil {
		t.Fatalf("buy %s: %v", symbol, err)
	}
}
