package state

import "errors"

// Engine failure taxonomy. Arithmetic is checked end to end; any step
// that cannot complete exactly surfaces ErrMath and leaves the market
// untouched.
var (
	ErrMath               = errors.New("math error")
	ErrInvalidTotalSupply = errors.New("invalid total supply")
	ErrInvalidFeeShares   = errors.New("fee shares exceed 10000 bps")
	ErrPricesAlreadySet   = errors.New("prices already set")
	ErrBidAskMismatch     = errors.New("bid price above ask price")
	ErrDecreasingPrices   = errors.New("prices must be strictly increasing")
	ErrPriceTooHigh       = errors.New("ask price above maximum")
)
