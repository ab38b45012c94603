package tokenmill

import (
	"github.com/gagliardetto/solana-go"
	"github.com/jup-ag/sol-token-mill/state"
)

func DeriveMarketAddress(baseTokenMint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte(state.MarketPdaSeed),
			baseTokenMint.Bytes(),
		},
		ProgramID,
	)
	return pda
}

func DeriveMarketStakingAddress(market solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("market_staking"),
			market.Bytes(),
		},
		ProgramID,
	)
	return pda
}

func DeriveStakePositionAddress(market, staker solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("stake_position"),
			market.Bytes(),
			staker.Bytes(),
		},
		ProgramID,
	)
	return pda
}

func DeriveQuoteTokenBadgeAddress(config, quoteTokenMint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("quote_token_badge"),
			config.Bytes(),
			quoteTokenMint.Bytes(),
		},
		ProgramID,
	)
	return pda
}
