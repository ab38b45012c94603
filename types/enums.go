package types

type Rounding uint8

const (
	RoundingDown Rounding = iota
	RoundingUp
)

// SwapAmountType tells the engine which side of the trade the base
// amount refers to: the amount given up or the amount desired.
type SwapAmountType uint8

const (
	ExactInput SwapAmountType = iota
	ExactOutput
)

type SwapType uint8

const (
	SwapTypeBuy SwapType = iota
	SwapTypeSell
)
