package maths

import (
	"errors"
	"math/big"

	"github.com/jup-ag/sol-token-mill/types"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("value does not fit into uint64")
)

var one = big.NewInt(1)

// MulDiv computes x*y/denominator with the quotient bumped by one when
// rounding up and the division is inexact. The intermediate product is
// arbitrary precision, so the only failure mode is a zero denominator.
func MulDiv(x, y, denominator *big.Int, rounding types.Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}

	div, mod := new(big.Int).QuoRem(
		new(big.Int).Mul(x, y),
		denominator,
		new(big.Int))

	if rounding == types.RoundingUp && mod.Sign() != 0 {
		div.Add(div, one)
	}

	return div, nil
}

// Div is the single-operand form of MulDiv.
func Div(x, denominator *big.Int, rounding types.Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}

	div, mod := new(big.Int).QuoRem(x, denominator, new(big.Int))

	if rounding == types.RoundingUp && mod.Sign() != 0 {
		div.Add(div, one)
	}

	return div, nil
}

// ToUint64 narrows x, failing when it is negative or does not fit.
func ToUint64(x *big.Int) (uint64, error) {
	if x.Sign() < 0 || !x.IsUint64() {
		return 0, ErrOverflow
	}
	return x.Uint64(), nil
}
