package maths

import (
	"errors"
	"math/big"

	"github.com/jup-ag/sol-token-mill/constants"
	"github.com/jup-ag/sol-token-mill/types"
)

var errNegativeRamp = errors.New("price1 below price0")

// DeltaQuote integrates a linear price ramp from price0 to price1 over
// one curve segment. The segment starts offset supply units into the
// interval and spans deltaBase units; width is the full interval width.
// All quantities are in the curve's normalized scale. The trapezoid
// area is kept in the doubled cross-multiplied form so the division
// happens exactly once, under the caller's rounding direction:
//
//	deltaQuote = deltaBase * ((price1-price0)*(deltaBase+2*offset) + 2*price0*width) / (2*Scale*width)
func DeltaQuote(deltaBase, price0, price1, width, offset *big.Int, rounding types.Rounding) (*big.Int, error) {
	priceDelta := new(big.Int).Sub(price1, price0)
	if priceDelta.Sign() < 0 {
		return nil, errNegativeRamp
	}

	numerator := new(big.Int).Mul(
		priceDelta,
		new(big.Int).Add(deltaBase, new(big.Int).Lsh(offset, 1)),
	)
	numerator.Add(
		numerator,
		new(big.Int).Lsh(new(big.Int).Mul(price0, width), 1),
	)

	denominator := new(big.Int).Lsh(
		new(big.Int).Mul(constants.ScaleBig, width), 1,
	)

	return MulDiv(deltaBase, numerator, denominator, rounding)
}

// DeltaBaseOut solves one ask-side segment for the base amount a quote
// budget purchases, walking up the curve. When the budget covers the
// whole remaining segment, the full width is consumed at its exact
// (rounded-up) cost. Otherwise the trapezoid formula is solved for
// deltaBase with the base rounded down, and the entire budget counts as
// spent: a buyer never receives more base than the quote strictly pays
// for.
func DeltaBaseOut(price0, price1, width, offset, quoteLeft *big.Int) (deltaBase, deltaQuote *big.Int, err error) {
	maxDeltaBase := new(big.Int).Sub(width, offset)
	maxDeltaQuote, err := DeltaQuote(maxDeltaBase, price0, price1, width, offset, types.RoundingUp)
	if err != nil {
		return nil, nil, err
	}

	if quoteLeft.Cmp(maxDeltaQuote) >= 0 {
		return maxDeltaBase, maxDeltaQuote, nil
	}

	// priceDelta*db^2 + b*db - c = 0
	// db = (sqrt(b^2 + 4*priceDelta*c) - b) / (2*priceDelta)
	priceDelta := new(big.Int).Sub(price1, price0)
	b := new(big.Int).Lsh(
		new(big.Int).Add(
			new(big.Int).Mul(offset, priceDelta),
			new(big.Int).Mul(price0, width),
		), 1,
	)
	c := new(big.Int).Mul(
		new(big.Int).Lsh(new(big.Int).Mul(constants.ScaleBig, width), 1),
		quoteLeft,
	)

	if priceDelta.Sign() == 0 {
		deltaBase, err = Div(c, b, types.RoundingDown)
		if err != nil {
			return nil, nil, err
		}
		return deltaBase, new(big.Int).Set(quoteLeft), nil
	}

	discriminant := new(big.Int).Add(
		new(big.Int).Mul(b, b),
		new(big.Int).Lsh(new(big.Int).Mul(priceDelta, c), 2),
	)
	root := new(big.Int).Sqrt(discriminant)

	// floor sqrt then floor division keeps the base side rounded down
	deltaBase, err = Div(
		new(big.Int).Sub(root, b),
		new(big.Int).Lsh(priceDelta, 1),
		types.RoundingDown,
	)
	if err != nil {
		return nil, nil, err
	}

	return deltaBase, new(big.Int).Set(quoteLeft), nil
}

// DeltaBaseIn solves one bid-side segment for the base amount that
// funds a quote payout, walking down the curve. available is the supply
// between the walk position and the bottom of the interval. When the
// budget covers the whole of it, the full available supply is consumed
// at its exact (rounded-down) value. Otherwise the trapezoid formula,
// taken over [available-deltaBase, available), is solved for deltaBase
// with the base rounded up: a seller never gives up less base than the
// payout requires.
func DeltaBaseIn(price0, price1, width, available, quoteLeft *big.Int) (deltaBase, deltaQuote *big.Int, err error) {
	maxDeltaQuote, err := DeltaQuote(available, price0, price1, width, new(big.Int), types.RoundingDown)
	if err != nil {
		return nil, nil, err
	}

	if quoteLeft.Cmp(maxDeltaQuote) >= 0 {
		return new(big.Int).Set(available), maxDeltaQuote, nil
	}

	// priceDelta*db^2 - b*db + c = 0
	// db = (b - sqrt(b^2 - 4*priceDelta*c)) / (2*priceDelta), smaller root
	priceDelta := new(big.Int).Sub(price1, price0)
	if priceDelta.Sign() < 0 {
		return nil, nil, errNegativeRamp
	}

	b := new(big.Int).Lsh(
		new(big.Int).Add(
			new(big.Int).Mul(available, priceDelta),
			new(big.Int).Mul(price0, width),
		), 1,
	)
	c := new(big.Int).Mul(
		new(big.Int).Lsh(new(big.Int).Mul(constants.ScaleBig, width), 1),
		quoteLeft,
	)

	if priceDelta.Sign() == 0 {
		deltaBase, err = Div(c, b, types.RoundingUp)
		if err != nil {
			return nil, nil, err
		}
		return deltaBase, new(big.Int).Set(quoteLeft), nil
	}

	discriminant := new(big.Int).Sub(
		new(big.Int).Mul(b, b),
		new(big.Int).Lsh(new(big.Int).Mul(priceDelta, c), 2),
	)
	if discriminant.Sign() < 0 {
		return nil, nil, errors.New("negative discriminant")
	}
	root := new(big.Int).Sqrt(discriminant)

	// floor sqrt inside the subtraction then ceiling division keeps the
	// base side rounded up
	deltaBase, err = Div(
		new(big.Int).Sub(b, root),
		new(big.Int).Lsh(priceDelta, 1),
		types.RoundingUp,
	)
	if err != nil {
		return nil, nil, err
	}

	return deltaBase, new(big.Int).Set(quoteLeft), nil
}
