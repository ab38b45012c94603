package helpers

import (
	"github.com/jup-ag/sol-token-mill/state"
	"github.com/jup-ag/sol-token-mill/types"
)

// GetSwapQuote prices a swap off-chain against a decoded market,
// without mutating it. The swap fee is the bid/ask spread over the
// traded supply window: the ask-side quote minus what the bid curve
// values the same base amount at, from the same starting supply. The
// fee split mirrors what DistributeFee would settle on chain.
func GetSwapQuote(market *state.Market, params types.QuoteParams) (types.SwapQuote, error) {
	if params.SwapType == types.SwapTypeBuy {
		return buyQuote(market, params)
	}
	return sellQuote(market, params)
}

func buyQuote(market *state.Market, params types.QuoteParams) (types.SwapQuote, error) {
	var (
		baseAmount, quoteAmount uint64
		err                     error
	)
	if params.SwapAmountType == types.ExactOutput {
		baseAmount, quoteAmount, err = market.GetQuoteAmount(params.Amount, types.ExactOutput)
	} else {
		baseAmount, quoteAmount, err = market.GetBaseAmountOut(params.Amount)
	}
	if err != nil {
		return types.SwapQuote{}, err
	}

	// bid-side value of the same window; the spread above it is the fee
	_, bidValue, err := market.GetQuoteAmountWithParameters(
		market.CirculatingSupply(), baseAmount, types.ExactInput, types.RoundingDown,
	)
	if err != nil {
		return types.SwapQuote{}, err
	}
	if bidValue > quoteAmount {
		return types.SwapQuote{}, state.ErrMath
	}
	swapFee := quoteAmount - bidValue

	quote, err := splitFee(market, baseAmount, quoteAmount, swapFee, params.ReferralFeeShareBps)
	if err != nil {
		return types.SwapQuote{}, err
	}

	if params.SwapAmountType == types.ExactOutput {
		quote.OtherAmountThreshold = GetMaxAmountWithSlippage(quoteAmount, params.SlippageRate)
	} else {
		quote.OtherAmountThreshold = GetMinAmountWithSlippage(baseAmount, params.SlippageRate)
	}
	return quote, nil
}

func sellQuote(market *state.Market, params types.QuoteParams) (types.SwapQuote, error) {
	var (
		baseAmount, quoteAmount uint64
		err                     error
	)
	if params.SwapAmountType == types.ExactInput {
		baseAmount, quoteAmount, err = market.GetQuoteAmount(params.Amount, types.ExactInput)
	} else {
		baseAmount, quoteAmount, err = market.GetBaseAmountIn(params.Amount)
	}
	if err != nil {
		return types.SwapQuote{}, err
	}

	// ask-side value of the same window; the payout sits below it by
	// the spread, which the market keeps as the fee
	circulating := market.CirculatingSupply()
	if baseAmount > circulating {
		return types.SwapQuote{}, state.ErrMath
	}
	_, askValue, err := market.GetQuoteAmountWithParameters(
		circulating-baseAmount, baseAmount, types.ExactOutput, types.RoundingUp,
	)
	if err != nil {
		return types.SwapQuote{}, err
	}
	if askValue < quoteAmount {
		return types.SwapQuote{}, state.ErrMath
	}
	swapFee := askValue - quoteAmount

	quote, err := splitFee(market, baseAmount, quoteAmount, swapFee, params.ReferralFeeShareBps)
	if err != nil {
		return types.SwapQuote{}, err
	}

	if params.SwapAmountType == types.ExactInput {
		quote.OtherAmountThreshold = GetMinAmountWithSlippage(quoteAmount, params.SlippageRate)
	} else {
		quote.OtherAmountThreshold = GetMaxAmountWithSlippage(baseAmount, params.SlippageRate)
	}
	return quote, nil
}

func splitFee(market *state.Market, baseAmount, quoteAmount, swapFee uint64, referralFeeShare *uint16) (types.SwapQuote, error) {
	creatorFee, stakingFee, protocolFee, referralFee, err := market.Fees.FeeSplit(swapFee, referralFeeShare)
	if err != nil {
		return types.SwapQuote{}, err
	}

	return types.SwapQuote{
		BaseAmount:  baseAmount,
		QuoteAmount: quoteAmount,
		SwapFee:     swapFee,
		CreatorFee:  creatorFee,
		StakingFee:  stakingFee,
		ProtocolFee: protocolFee,
		ReferralFee: referralFee,
	}, nil
}
