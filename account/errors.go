package account

import "errors"

// Order rejection reasons. Every rejected operation leaves the account
// unchanged; callers match with errors.Is.
var (
	ErrMarketClosed       = errors.New("market is closed")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoSuchPosition     = errors.New("no such position")
)
