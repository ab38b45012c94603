package helpers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/jup-ag/sol-token-mill/constants"
	"github.com/jup-ag/sol-token-mill/maths"
	"github.com/jup-ag/sol-token-mill/types"
)

// slippageBps converts a float64 percentage rate into basis points,
// rounded to the nearest bps. All slippage math past this point is
// integer arithmetic.
func slippageBps(rate float64) uint64 {
	return uint64(math.Round(rate * 100))
}

// GetMinAmountWithSlippage calculates the minimum amount receivable
// after slippage is applied.
//
// - amount: the quoted amount.
//
// - rate: the slippage rate as a float64 percentage (e.g., 0.5 for 0.5%).
func GetMinAmountWithSlippage(amount uint64, rate float64) uint64 {
	bps := slippageBps(rate)
	if bps >= constants.MaxBps {
		return 0
	}
	out, err := maths.MulDiv(
		new(big.Int).SetUint64(amount),
		new(big.Int).SetUint64(constants.MaxBps-bps),
		constants.MaxBpsBig,
		types.RoundingDown,
	)
	if err != nil {
		panic(err) // MaxBpsBig is a nonzero constant
	}
	v, err := maths.ToUint64(out)
	if err != nil {
		panic(err) // result never exceeds amount
	}
	return v
}

// GetMaxAmountWithSlippage calculates the maximum amount payable after
// slippage is applied; the mirror of GetMinAmountWithSlippage for the
// exact-output side. Saturates at MaxUint64 when the bound does not
// fit.
func GetMaxAmountWithSlippage(amount uint64, rate float64) uint64 {
	out, err := maths.MulDiv(
		new(big.Int).SetUint64(amount),
		new(big.Int).SetUint64(constants.MaxBps+slippageBps(rate)),
		constants.MaxBpsBig,
		types.RoundingUp,
	)
	if err != nil {
		panic(err) // MaxBpsBig is a nonzero constant
	}
	v, err := maths.ToUint64(out)
	if err != nil {
		return math.MaxUint64
	}
	return v
}

// DeriveAssociatedTokenAddress derives the ATA for any token program,
// Token-2022 included.
func DeriveAssociatedTokenAddress(
	owner, mint, tokenProgram solana.PublicKey,
) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			tokenProgram.Bytes(),
			mint.Bytes(),
		},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive ata for %s: %w", owner, err)
	}
	return addr, nil
}

// GetOrCreateATAInstruction resolves the owner's associated token
// account and, when it does not exist yet, returns the instruction
// creating it.
func GetOrCreateATAInstruction(
	ctx context.Context,
	conn *rpc.Client,
	mint, owner, payer, tokenProgram solana.PublicKey,
) (solana.PublicKey, solana.Instruction, error) {
	ataAddr, err := DeriveAssociatedTokenAddress(owner, mint, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}

	out, err := conn.GetAccountInfo(ctx, ataAddr)
	if err != nil && !errors.Is(err, rpc.ErrNotFound) {
		return solana.PublicKey{}, nil, fmt.Errorf("fetch ata %s: %w", ataAddr, err)
	}
	if err == nil && out != nil && out.Value != nil {
		return ataAddr, nil, nil
	}

	ix, err := ata.NewCreateInstruction(payer, owner, mint).ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("build create ata instruction: %w", err)
	}
	return ataAddr, ix, nil
}
