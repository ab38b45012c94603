package types

import (
	"github.com/gagliardetto/solana-go"
	"github.com/jup-ag/sol-token-mill/constants"
)

type CreateMarketParams struct {
	Payer   solana.PublicKey
	Creator solana.PublicKey
	Config  solana.PublicKey
	// Mint address of the base token sold by the curve
	BaseTokenMint solana.PublicKey
	// Mint address of the quote token
	QuoteTokenMint     solana.PublicKey
	QuoteTokenProgram  solana.PublicKey
	TotalSupply        uint64
	CreatorFeeShareBps uint16
	StakingFeeShareBps uint16
}

type SetMarketPricesParams struct {
	Creator   solana.PublicKey
	Market    solana.PublicKey
	BidPrices [constants.PricesLength]uint64
	AskPrices [constants.PricesLength]uint64
}

type SwapParams struct {
	Payer  solana.PublicKey
	Config solana.PublicKey
	Market solana.PublicKey
	// Mint address of the base token
	BaseTokenMint solana.PublicKey
	// Mint address of the quote token
	QuoteTokenMint    solana.PublicKey
	BaseTokenProgram  solana.PublicKey
	QuoteTokenProgram solana.PublicKey
	// Quote token account collecting the protocol share of the fee
	ProtocolQuoteTokenAccount solana.PublicKey
	// Optional referral quote token account
	ReferralTokenAccount *solana.PublicKey

	SwapType       SwapType
	SwapAmountType SwapAmountType
	Amount         uint64
	// Slippage bound on the unspecified side: minimum received for
	// ExactInput, maximum paid for ExactOutput
	OtherAmountThreshold uint64
}

type ClaimCreatorFeesParams struct {
	Creator solana.PublicKey
	Market  solana.PublicKey
	// Mint address of the quote token
	QuoteTokenMint    solana.PublicKey
	QuoteTokenProgram solana.PublicKey
}

type ClaimStakingRewardsParams struct {
	Staker solana.PublicKey
	Market solana.PublicKey
	// Mint address of the quote token
	QuoteTokenMint    solana.PublicKey
	QuoteTokenProgram solana.PublicKey
}

// QuoteParams describes the trade to price off-chain.
type QuoteParams struct {
	SwapType       SwapType
	SwapAmountType SwapAmountType
	// Base amount when the base side is specified, quote amount otherwise
	Amount uint64
	// Referral share of the protocol fee, in bps, nil when no referrer
	ReferralFeeShareBps *uint16
	// Slippage rate as a float64 percentage (e.g., 0.5 for 0.5%)
	SlippageRate float64
}

// SwapQuote is the off-chain preview of a swap: settled amounts, the
// spread fee the market keeps, and its split.
type SwapQuote struct {
	// Base tokens moved; may be below the requested amount when the
	// curve boundary truncates the trade
	BaseAmount uint64
	// Quote tokens moved, fee included
	QuoteAmount uint64

	SwapFee     uint64
	CreatorFee  uint64
	StakingFee  uint64
	ProtocolFee uint64
	ReferralFee uint64

	// Slippage bound on the unspecified side: minimum received for
	// ExactInput, maximum paid for ExactOutput
	OtherAmountThreshold uint64
}
