package account

// Position is an open holding of a symbol. Shares is always positive: a
// position that reaches zero shares is removed from the portfolio, never
// stored empty. AvgPrice is the volume-weighted average of all accumulated
// buys; sells never change it.
type Position struct {
	Symbol     string   `json:"symbol"`
	Shares     int      `json:"shares"`
	AvgPrice   float64  `json:"avg_price"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
}

// MarketValue is the position's worth at the given price.
func (p Position) MarketValue(price float64) float64 {
	return price * float64(p.Shares)
}

// UnrealizedPL is the profit or loss if the position were liquidated at
// the given price.
func (p Position) UnrealizedPL(price float64) float64 {
	return (price - p.AvgPrice) * float64(p.Shares)
}

// HitStopLoss reports whether price has reached the stop-loss threshold.
// An unset threshold never triggers.
func (p Position) HitStopLoss(price float64) bool {
	if p.StopLoss == nil {
		return false
	}
	return price <= *p.StopLoss
}

// HitTakeProfit reports whether price has reached the take-profit
// threshold. An unset threshold never triggers.
func (p Position) HitTakeProfit(price float64) bool {
	if p.TakeProfit == nil {
		return false
	}
	return price >= *p.TakeProfit
}
