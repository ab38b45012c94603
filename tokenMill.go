package tokenmill

import (
	"context"
	"errors"
	"fmt"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/jup-ag/sol-token-mill/anchor"
	"github.com/jup-ag/sol-token-mill/helpers"
	"github.com/jup-ag/sol-token-mill/state"
	"github.com/jup-ag/sol-token-mill/types"
)

// TokenMill SDK class to interact with the Token Mill program.
type TokenMill struct {
	conn *rpc.Client
}

func NewTokenMill(conn *rpc.Client) *TokenMill {
	return &TokenMill{conn: conn}
}

// GetMarket fetches and decodes a market account.
func (tm *TokenMill) GetMarket(ctx context.Context, market solana.PublicKey) (*state.Market, error) {
	out, err := tm.conn.GetAccountInfo(ctx, market)
	if err != nil {
		return nil, fmt.Errorf("fetch market %s: %w", market, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("market account %s not found", market)
	}

	return state.DecodeMarket(out.Value.Data.GetBinary())
}

// GetSwapQuote fetches the market and prices the described trade
// off-chain, fees and slippage bound included.
func (tm *TokenMill) GetSwapQuote(ctx context.Context, market solana.PublicKey, params types.QuoteParams) (types.SwapQuote, error) {
	marketState, err := tm.GetMarket(ctx, market)
	if err != nil {
		return types.SwapQuote{}, err
	}
	if !marketState.ArePricesSet() {
		return types.SwapQuote{}, errors.New("market prices not set")
	}

	return helpers.GetSwapQuote(marketState, params)
}

// CreateMarketInstruction builds the instruction creating a market for
// the given base token, with the whole supply in reserve and the fee
// shares fixed.
func (tm *TokenMill) CreateMarketInstruction(params types.CreateMarketParams) (solana.Instruction, error) {
	market := DeriveMarketAddress(params.BaseTokenMint)

	marketBaseTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		market, params.BaseTokenMint, solana.TokenProgramID,
	)
	if err != nil {
		return nil, err
	}

	return anchor.NewInstruction(
		ProgramID,
		"create_market",
		solana.AccountMetaSlice{
			solana.Meta(params.Config),
			solana.Meta(market).WRITE(),
			solana.Meta(params.BaseTokenMint).WRITE(),
			solana.Meta(marketBaseTokenAta).WRITE(),
			solana.Meta(params.QuoteTokenMint),
			solana.Meta(DeriveQuoteTokenBadgeAddress(params.Config, params.QuoteTokenMint)),
			solana.Meta(params.Creator).SIGNER(),
			solana.Meta(params.Payer).SIGNER().WRITE(),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(params.QuoteTokenProgram),
			solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
			solana.Meta(system.ProgramID),
		},
		func(encoder *ag_binary.Encoder) error {
			if err := encoder.Encode(params.TotalSupply); err != nil {
				return err
			}
			if err := encoder.Encode(params.CreatorFeeShareBps); err != nil {
				return err
			}
			return encoder.Encode(params.StakingFeeShareBps)
		},
	)
}

// SetMarketPricesInstruction builds the one-shot price configuration
// instruction. The program applies the same validation as
// state.Market.CheckAndSetPrices.
func (tm *TokenMill) SetMarketPricesInstruction(params types.SetMarketPricesParams) (solana.Instruction, error) {
	return anchor.NewInstruction(
		ProgramID,
		"set_market_prices",
		solana.AccountMetaSlice{
			solana.Meta(params.Market).WRITE(),
			solana.Meta(params.Creator).SIGNER(),
		},
		func(encoder *ag_binary.Encoder) error {
			if err := encoder.Encode(params.BidPrices); err != nil {
				return err
			}
			return encoder.Encode(params.AskPrices)
		},
	)
}

// SwapInstruction builds a swap against the market's curve. The payer's
// token accounts are the ATAs for both mints; missing ones must be
// created beforehand (see helpers.GetOrCreateATAInstruction).
func (tm *TokenMill) SwapInstruction(params types.SwapParams) (solana.Instruction, error) {
	marketBaseTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Market, params.BaseTokenMint, params.BaseTokenProgram,
	)
	if err != nil {
		return nil, err
	}
	marketQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Market, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}
	payerBaseTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Payer, params.BaseTokenMint, params.BaseTokenProgram,
	)
	if err != nil {
		return nil, err
	}
	payerQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Payer, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(params.Config),
		solana.Meta(params.Market).WRITE(),
		solana.Meta(params.BaseTokenMint),
		solana.Meta(params.QuoteTokenMint),
		solana.Meta(marketBaseTokenAta).WRITE(),
		solana.Meta(marketQuoteTokenAta).WRITE(),
		solana.Meta(payerBaseTokenAta).WRITE(),
		solana.Meta(payerQuoteTokenAta).WRITE(),
		solana.Meta(params.ProtocolQuoteTokenAccount).WRITE(),
	}
	if params.ReferralTokenAccount != nil {
		accounts = append(accounts, solana.Meta(*params.ReferralTokenAccount).WRITE())
	}
	accounts = append(accounts,
		solana.Meta(params.Payer).SIGNER().WRITE(),
		solana.Meta(params.BaseTokenProgram),
		solana.Meta(params.QuoteTokenProgram),
	)

	return anchor.NewInstruction(
		ProgramID,
		"swap",
		accounts,
		func(encoder *ag_binary.Encoder) error {
			if err := encoder.Encode(uint8(params.SwapType)); err != nil {
				return err
			}
			if err := encoder.Encode(uint8(params.SwapAmountType)); err != nil {
				return err
			}
			if err := encoder.Encode(params.Amount); err != nil {
				return err
			}
			return encoder.Encode(params.OtherAmountThreshold)
		},
	)
}

// ClaimCreatorFeesInstruction builds the instruction withdrawing the
// creator's pending fee balance to their quote token ATA.
func (tm *TokenMill) ClaimCreatorFeesInstruction(params types.ClaimCreatorFeesParams) (solana.Instruction, error) {
	marketQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Market, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}
	creatorQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Creator, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}

	return anchor.NewInstruction(
		ProgramID,
		"claim_creator_fees",
		solana.AccountMetaSlice{
			solana.Meta(params.Market).WRITE(),
			solana.Meta(params.QuoteTokenMint),
			solana.Meta(marketQuoteTokenAta).WRITE(),
			solana.Meta(creatorQuoteTokenAta).WRITE(),
			solana.Meta(params.Creator).SIGNER(),
			solana.Meta(params.QuoteTokenProgram),
		},
		nil,
	)
}

// ClaimStakingRewardsInstruction builds the instruction settling a
// staker's share of the pending staking fees.
func (tm *TokenMill) ClaimStakingRewardsInstruction(params types.ClaimStakingRewardsParams) (solana.Instruction, error) {
	marketQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Market, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}
	stakerQuoteTokenAta, err := helpers.DeriveAssociatedTokenAddress(
		params.Staker, params.QuoteTokenMint, params.QuoteTokenProgram,
	)
	if err != nil {
		return nil, err
	}

	return anchor.NewInstruction(
		ProgramID,
		"claim_staking_rewards",
		solana.AccountMetaSlice{
			solana.Meta(params.Market).WRITE(),
			solana.Meta(DeriveMarketStakingAddress(params.Market)).WRITE(),
			solana.Meta(DeriveStakePositionAddress(params.Market, params.Staker)).WRITE(),
			solana.Meta(params.QuoteTokenMint),
			solana.Meta(marketQuoteTokenAta).WRITE(),
			solana.Meta(stakerQuoteTokenAta).WRITE(),
			solana.Meta(params.Staker).SIGNER(),
			solana.Meta(params.QuoteTokenProgram),
		},
		nil,
	)
}
