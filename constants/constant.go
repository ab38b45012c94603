package constants

import "math/big"

const (
	// PricesLength is the number of points on each price curve: one per
	// interval boundary.
	PricesLength   = 11
	IntervalNumber = 10

	MaxTotalSupply = 1_000_000_000_000_000     // 1e9 * 1e6
	MaxPrice       = 1_000_000_000_000_000_000 // 1e18

	MillTokenDecimals = 6
	BasePrecision     = 1_000_000 // 1e6

	// Scale is the curve's internal fixed-point precision. Supply and
	// amounts are rescaled from BasePrecision into Scale before
	// integration so rounding happens once, at the conversion boundary.
	Scale = 10_000_000_000 // 1e10

	StakingScale = 1_000_000_000_000_000_000 // 1e18

	MaxBps = 10_000
)

// These are big.Int values, shared by the curve math hot path.
var (
	// ScaleBig
	//  ScaleBig = new(big.Int).SetUint64(Scale)
	ScaleBig = new(big.Int).SetUint64(Scale)

	// BasePrecisionBig
	//  BasePrecisionBig = new(big.Int).SetUint64(BasePrecision)
	BasePrecisionBig = new(big.Int).SetUint64(BasePrecision)

	// MaxBpsBig
	//  MaxBpsBig = new(big.Int).SetUint64(MaxBps)
	MaxBpsBig = new(big.Int).SetUint64(MaxBps)
)
