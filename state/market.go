package state

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/jup-ag/sol-token-mill/constants"
	"github.com/jup-ag/sol-token-mill/maths"
	"github.com/jup-ag/sol-token-mill/types"
)

const MarketPdaSeed = "market"

// MarketFees tracks the fee split configuration and the undistributed
// balances. staking + creator + protocol shares always cover 100%; the
// protocol share is whatever the first two leave behind.
type MarketFees struct {
	StakingFeeShare uint16
	CreatorFeeShare uint16

	PendingStakingFees uint64
	PendingCreatorFees uint64
}

// Market is the priced supply schedule for one base/quote token pair.
// It mirrors the on-chain account field for field; only BaseReserve and
// the two pending fee balances mutate after the prices are set.
type Market struct {
	Config  solana.PublicKey
	Creator solana.PublicKey

	BaseTokenMint  solana.PublicKey
	QuoteTokenMint solana.PublicKey

	BaseReserve uint64

	BidPrices [constants.PricesLength]uint64
	AskPrices [constants.PricesLength]uint64

	// Normalized supply per interval, TotalSupply/IntervalNumber
	// rescaled from BasePrecision into Scale
	WidthScaled uint64
	TotalSupply uint64

	Fees MarketFees

	QuoteTokenDecimals uint8
	Bump               uint8
}

// FeeSplit computes the creator/staking/protocol/referral parts of a
// swap fee without touching the pending balances. The four parts always
// sum exactly to swapFee.
func (f *MarketFees) FeeSplit(swapFee uint64, referralFeeShare *uint16) (creatorFee, stakingFee, protocolFee, referralFee uint64, err error) {
	swapFeeBig := new(big.Int).SetUint64(swapFee)

	creatorFee, err = mulBps(swapFeeBig, f.CreatorFeeShare)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	stakingFee, err = mulBps(swapFeeBig, f.StakingFeeShare)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	if creatorFee > swapFee || swapFee-creatorFee < stakingFee {
		return 0, 0, 0, 0, ErrMath
	}
	remainingFee := swapFee - creatorFee - stakingFee

	if referralFeeShare != nil {
		referralFee, err = mulBps(new(big.Int).SetUint64(remainingFee), *referralFeeShare)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}

	if referralFee > remainingFee {
		return 0, 0, 0, 0, ErrMath
	}
	protocolFee = remainingFee - referralFee

	return creatorFee, stakingFee, protocolFee, referralFee, nil
}

// DistributeFee splits a swap fee and accumulates the creator and
// staking parts into the pending balances. The protocol and referral
// parts are returned for external settlement, not stored.
func (f *MarketFees) DistributeFee(swapFee uint64, referralFeeShare *uint16) (creatorFee, stakingFee, protocolFee, referralFee uint64, err error) {
	creatorFee, stakingFee, protocolFee, referralFee, err = f.FeeSplit(swapFee, referralFeeShare)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	pendingCreator := f.PendingCreatorFees + creatorFee
	if pendingCreator < f.PendingCreatorFees {
		return 0, 0, 0, 0, ErrMath
	}
	pendingStaking := f.PendingStakingFees + stakingFee
	if pendingStaking < f.PendingStakingFees {
		return 0, 0, 0, 0, ErrMath
	}

	f.PendingCreatorFees = pendingCreator
	f.PendingStakingFees = pendingStaking

	return creatorFee, stakingFee, protocolFee, referralFee, nil
}

// mulBps computes amount*shareBps/MaxBps, floored.
func mulBps(amount *big.Int, shareBps uint16) (uint64, error) {
	v, err := maths.MulDiv(
		amount,
		new(big.Int).SetUint64(uint64(shareBps)),
		constants.MaxBpsBig,
		types.RoundingDown,
	)
	if err != nil {
		return 0, ErrMath
	}
	out, err := maths.ToUint64(v)
	if err != nil {
		return 0, ErrMath
	}
	return out, nil
}

// Initialize sets the immutable curve parameters. The total supply must
// be an exact multiple of IntervalNumber, give each interval at least
// one BasePrecision unit, and stay under the hard ceiling. The whole
// supply starts in reserve.
func (m *Market) Initialize(
	bump uint8,
	config solana.PublicKey,
	creator solana.PublicKey,
	baseTokenMint solana.PublicKey,
	quoteTokenMint solana.PublicKey,
	quoteTokenDecimals uint8,
	totalSupply uint64,
	creatorFeeShare uint16,
	stakingFeeShare uint16,
) error {
	intervalSupply := totalSupply / constants.IntervalNumber
	if totalSupply > constants.MaxTotalSupply ||
		intervalSupply < constants.BasePrecision ||
		intervalSupply*constants.IntervalNumber != totalSupply {
		return ErrInvalidTotalSupply
	}

	if uint32(creatorFeeShare)+uint32(stakingFeeShare) > constants.MaxBps {
		return ErrInvalidFeeShares
	}

	widthScaledBig, err := maths.MulDiv(
		new(big.Int).SetUint64(intervalSupply),
		constants.ScaleBig,
		constants.BasePrecisionBig,
		types.RoundingDown,
	)
	if err != nil {
		return ErrMath
	}
	widthScaled, err := maths.ToUint64(widthScaledBig)
	if err != nil {
		return ErrMath
	}

	m.Bump = bump
	m.Config = config
	m.Creator = creator
	m.BaseTokenMint = baseTokenMint
	m.QuoteTokenMint = quoteTokenMint
	m.QuoteTokenDecimals = quoteTokenDecimals
	m.TotalSupply = totalSupply
	m.BaseReserve = totalSupply
	m.WidthScaled = widthScaled

	m.Fees.CreatorFeeShare = creatorFeeShare
	m.Fees.StakingFeeShare = stakingFeeShare

	return nil
}

// CheckAndSetPrices validates and stores both curves atomically. Prices
// can be set exactly once; a validated curve always ends with a nonzero
// ask, which doubles as the already-set sentinel.
func (m *Market) CheckAndSetPrices(
	bidPrices [constants.PricesLength]uint64,
	askPrices [constants.PricesLength]uint64,
) error {
	if m.ArePricesSet() {
		return ErrPricesAlreadySet
	}

	for i := 0; i < constants.PricesLength; i++ {
		bidPrice, askPrice := bidPrices[i], askPrices[i]

		if bidPrice > askPrice {
			return ErrBidAskMismatch
		}

		if i > 0 && (askPrice <= askPrices[i-1] || bidPrice <= bidPrices[i-1]) {
			return ErrDecreasingPrices
		}
	}

	if askPrices[constants.IntervalNumber] > constants.MaxPrice {
		return ErrPriceTooHigh
	}

	m.BidPrices = bidPrices
	m.AskPrices = askPrices

	return nil
}

func (m *Market) ArePricesSet() bool {
	return m.AskPrices[constants.IntervalNumber] != 0
}

// CirculatingSupply is the derived quantity TotalSupply - BaseReserve.
func (m *Market) CirculatingSupply() uint64 {
	if m.BaseReserve > m.TotalSupply {
		return 0
	}
	return m.TotalSupply - m.BaseReserve
}

// GetQuoteAmount prices a trade specified by its base amount.
// ExactInput sells baseAmount into the bid curve below the circulating
// supply, rounding the quote down; ExactOutput buys baseAmount from the
// ask curve above it, rounding the quote up. It returns the base amount
// the curve could actually price and the matching quote amount.
func (m *Market) GetQuoteAmount(baseAmount uint64, swapAmountType types.SwapAmountType) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	circulatingSupply := m.CirculatingSupply()

	var (
		supply   uint64
		rounding types.Rounding
	)
	switch swapAmountType {
	case types.ExactInput:
		if baseAmount > circulatingSupply {
			return 0, 0, ErrMath
		}
		supply, rounding = circulatingSupply-baseAmount, types.RoundingDown
	default:
		supply, rounding = circulatingSupply, types.RoundingUp
	}

	return m.GetQuoteAmountWithParameters(supply, baseAmount, swapAmountType, rounding)
}

// GetQuoteAmountWithParameters integrates the curve selected by
// swapAmountType over [supply, supply+baseAmount), under an explicit
// rounding direction. Any part of baseAmount beyond the last interval
// is left unsettled and excluded from the returned base amount.
func (m *Market) GetQuoteAmountWithParameters(
	supply uint64,
	baseAmount uint64,
	swapAmountType types.SwapAmountType,
	rounding types.Rounding,
) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	priceCurve := &m.AskPrices
	if swapAmountType == types.ExactInput {
		priceCurve = &m.BidPrices
	}

	normalizedSupply, err := normalize(supply, constants.BasePrecisionBig)
	if err != nil {
		return 0, 0, err
	}
	normalizedBaseAmount, err := normalize(baseAmount, constants.BasePrecisionBig)
	if err != nil {
		return 0, 0, err
	}

	width := new(big.Int).SetUint64(m.WidthScaled)

	quote, baseLeft, err := m.walkIntervals(
		priceCurve, normalizedSupply, normalizedBaseAmount, false,
		func(price0, price1, offset, budgetLeft *big.Int) (spent, accrued *big.Int, err error) {
			spent = new(big.Int).Sub(width, offset)
			if spent.Cmp(budgetLeft) > 0 {
				spent = new(big.Int).Set(budgetLeft)
			}
			accrued, err = maths.DeltaQuote(spent, price0, price1, width, offset, rounding)
			return spent, accrued, err
		},
	)
	if err != nil {
		return 0, 0, err
	}

	baseLeftOver, err := denormalize(baseLeft, constants.BasePrecisionBig, rounding)
	if err != nil {
		return 0, 0, err
	}
	if baseLeftOver > baseAmount {
		return 0, 0, ErrMath
	}

	quoteAmountSwapped, err = denormalize(quote, m.quotePrecision(), rounding)
	if err != nil {
		return 0, 0, err
	}

	return baseAmount - baseLeftOver, quoteAmountSwapped, nil
}

// GetBaseAmountOut prices a buy with a fixed quote budget: it walks the
// ask curve up from the circulating supply, spending the budget segment
// by segment, with the base side rounded down. It returns the base
// amount bought and the quote actually spent; any budget the curve
// boundary leaves unspendable stays with the caller.
func (m *Market) GetBaseAmountOut(quoteAmount uint64) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	return m.baseForQuote(quoteAmount, false)
}

// GetBaseAmountIn prices a sell targeting a fixed quote payout: it
// walks the bid curve down from the circulating supply, because funding
// a payout consumes supply in decreasing-price order, with the base
// side rounded up. It returns the base amount sold and the quote payout
// actually funded.
func (m *Market) GetBaseAmountIn(quoteAmount uint64) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	return m.baseForQuote(quoteAmount, true)
}

// GetBaseAmount dispatches on the trade side: a buy spends quoteAmount,
// a sell collects it.
func (m *Market) GetBaseAmount(quoteAmount uint64, swapType types.SwapType) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	if swapType == types.SwapTypeBuy {
		return m.GetBaseAmountOut(quoteAmount)
	}
	return m.GetBaseAmountIn(quoteAmount)
}

func (m *Market) baseForQuote(quoteAmount uint64, sell bool) (baseAmountSwapped, quoteAmountSwapped uint64, err error) {
	priceCurve, rounding := &m.AskPrices, types.RoundingDown
	if sell {
		priceCurve, rounding = &m.BidPrices, types.RoundingUp
	}

	normalizedSupply, err := normalize(m.CirculatingSupply(), constants.BasePrecisionBig)
	if err != nil {
		return 0, 0, err
	}

	quotePrecision := m.quotePrecision()
	normalizedQuoteAmount, err := normalize(quoteAmount, quotePrecision)
	if err != nil {
		return 0, 0, err
	}

	width := new(big.Int).SetUint64(m.WidthScaled)

	step := func(price0, price1, offset, budgetLeft *big.Int) (spent, accrued *big.Int, err error) {
		deltaBase, deltaQuote, err := maths.DeltaBaseOut(price0, price1, width, offset, budgetLeft)
		return deltaQuote, deltaBase, err
	}
	if sell {
		step = func(price0, price1, available, budgetLeft *big.Int) (spent, accrued *big.Int, err error) {
			deltaBase, deltaQuote, err := maths.DeltaBaseIn(price0, price1, width, available, budgetLeft)
			return deltaQuote, deltaBase, err
		}
	}

	base, quoteLeft, err := m.walkIntervals(priceCurve, normalizedSupply, normalizedQuoteAmount, sell, step)
	if err != nil {
		return 0, 0, err
	}

	baseAmountSwapped, err = denormalize(base, constants.BasePrecisionBig, rounding)
	if err != nil {
		return 0, 0, err
	}

	quoteLeftOver, err := denormalize(quoteLeft, quotePrecision, rounding)
	if err != nil {
		return 0, 0, err
	}
	if quoteLeftOver > quoteAmount {
		return 0, 0, ErrMath
	}

	return baseAmountSwapped, quoteAmount - quoteLeftOver, nil
}

// stepFunc prices one sub-segment of an interval. price0 and price1
// bound the interval in ascending supply order, room is the offset
// already consumed on a forward walk and the supply still available on
// a backward one, and budgetLeft is what remains of the walk's budget.
// It returns the budget spent and the counter-side amount accrued.
type stepFunc func(price0, price1, room, budgetLeft *big.Int) (spent, accrued *big.Int, err error)

// walkIntervals drives one trade across the price curve, one interval
// segment at a time, until the budget is exhausted or the walk runs off
// the curve. The five trade procedures differ only in curve, rounding
// and step; the traversal lives here once.
func (m *Market) walkIntervals(
	priceCurve *[constants.PricesLength]uint64,
	normalizedSupply, budget *big.Int,
	backward bool,
	step stepFunc,
) (accrued, budgetLeft *big.Int, err error) {
	if m.WidthScaled == 0 {
		return nil, nil, ErrMath
	}
	width := new(big.Int).SetUint64(m.WidthScaled)

	iBig, room := new(big.Int).QuoRem(normalizedSupply, width, new(big.Int))
	if !iBig.IsInt64() || iBig.Int64() >= constants.PricesLength {
		return nil, nil, ErrMath
	}
	i := int(iBig.Int64())

	accrued, budgetLeft = new(big.Int), new(big.Int).Set(budget)

	if backward {
		// room flips meaning: supply still available below the cursor
		if room.Sign() == 0 {
			room = new(big.Int).Set(width)
		} else {
			i++
		}
		if i >= constants.PricesLength {
			return nil, nil, ErrMath
		}

		for budgetLeft.Sign() > 0 && i > 0 {
			spent, stepAccrued, err := step(
				new(big.Int).SetUint64(priceCurve[i-1]),
				new(big.Int).SetUint64(priceCurve[i]),
				room, budgetLeft,
			)
			if err != nil {
				return nil, nil, ErrMath
			}

			accrued.Add(accrued, stepAccrued)
			budgetLeft.Sub(budgetLeft, spent)
			if budgetLeft.Sign() < 0 {
				return nil, nil, ErrMath
			}

			room = new(big.Int).Set(width)
			i--
		}

		return accrued, budgetLeft, nil
	}

	for budgetLeft.Sign() > 0 && i+1 < constants.PricesLength {
		spent, stepAccrued, err := step(
			new(big.Int).SetUint64(priceCurve[i]),
			new(big.Int).SetUint64(priceCurve[i+1]),
			room, budgetLeft,
		)
		if err != nil {
			return nil, nil, ErrMath
		}

		accrued.Add(accrued, stepAccrued)
		budgetLeft.Sub(budgetLeft, spent)
		if budgetLeft.Sign() < 0 {
			return nil, nil, ErrMath
		}

		room = new(big.Int)
		i++
	}

	return accrued, budgetLeft, nil
}

func (m *Market) quotePrecision() *big.Int {
	return new(big.Int).Exp(
		big.NewInt(10),
		big.NewInt(int64(m.QuoteTokenDecimals)),
		nil,
	)
}

// normalize rescales a token amount from its own precision into Scale.
func normalize(amount uint64, precision *big.Int) (*big.Int, error) {
	v, err := maths.MulDiv(
		new(big.Int).SetUint64(amount),
		constants.ScaleBig,
		precision,
		types.RoundingDown,
	)
	if err != nil {
		return nil, ErrMath
	}
	return v, nil
}

// denormalize rescales a normalized amount back into token precision.
func denormalize(amount, precision *big.Int, rounding types.Rounding) (uint64, error) {
	scaled, err := maths.MulDiv(amount, precision, constants.ScaleBig, rounding)
	if err != nil {
		return 0, ErrMath
	}
	out, err := maths.ToUint64(scaled)
	if err != nil {
		return 0, ErrMath
	}
	return out, nil
}
