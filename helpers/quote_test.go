package helpers_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/jup-ag/sol-token-mill/constants"
	"github.com/jup-ag/sol-token-mill/helpers"
	"github.com/jup-ag/sol-token-mill/state"
	"github.com/jup-ag/sol-token-mill/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const totalSupply = 10_000_000 * constants.BasePrecision

// newSpreadMarket carries a constant half-token spread between bid and
// ask, so every trade leaves a nonzero fee.
func newSpreadMarket(t *testing.T) *state.Market {
	t.Helper()

	m := &state.Market{}
	require.NoError(t, m.Initialize(
		255,
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		6,
		totalSupply,
		1_000,
		2_000,
	))

	var bid, ask [constants.PricesLength]uint64
	for i := range ask {
		ask[i] = uint64(i+1) * 1_000_000
		bid[i] = ask[i] - 500_000
	}
	require.NoError(t, m.CheckAndSetPrices(bid, ask))
	return m
}

func TestGetSwapQuoteBuyExactOutput(t *testing.T) {
	m := newSpreadMarket(t)

	quote, err := helpers.GetSwapQuote(m, types.QuoteParams{
		SwapType:       types.SwapTypeBuy,
		SwapAmountType: types.ExactOutput,
		Amount:         1_000_000_000_000,
		SlippageRate:   0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000_000_000_000), quote.BaseAmount)
	assert.Equal(t, uint64(150_000_000), quote.QuoteAmount)

	// ask leg 1.5e8 minus bid leg 1e8 over the same window
	assert.Equal(t, uint64(50_000_000), quote.SwapFee)
	assert.Equal(t, uint64(5_000_000), quote.CreatorFee)
	assert.Equal(t, uint64(10_000_000), quote.StakingFee)
	assert.Equal(t, uint64(35_000_000), quote.ProtocolFee)
	assert.Equal(t, uint64(0), quote.ReferralFee)
	assert.Equal(t, quote.SwapFee, quote.CreatorFee+quote.StakingFee+quote.ProtocolFee+quote.ReferralFee)

	// 0.5% above the quoted cost
	assert.Equal(t, uint64(150_750_000), quote.OtherAmountThreshold)

	// quoting never touches the market
	assert.Equal(t, uint64(totalSupply), m.BaseReserve)
	assert.Equal(t, uint64(0), m.Fees.PendingCreatorFees)
}

func TestGetSwapQuoteSellExactInput(t *testing.T) {
	m := newSpreadMarket(t)
	m.BaseReserve = totalSupply - 1_000_000_000_000

	quote, err := helpers.GetSwapQuote(m, types.QuoteParams{
		SwapType:       types.SwapTypeSell,
		SwapAmountType: types.ExactInput,
		Amount:         1_000_000_000_000,
		SlippageRate:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000_000_000_000), quote.BaseAmount)
	assert.Equal(t, uint64(100_000_000), quote.QuoteAmount)
	assert.Equal(t, uint64(50_000_000), quote.SwapFee)
	assert.Equal(t, quote.SwapFee, quote.CreatorFee+quote.StakingFee+quote.ProtocolFee+quote.ReferralFee)

	// 1% below the quoted payout
	assert.Equal(t, uint64(99_000_000), quote.OtherAmountThreshold)
}

func TestGetSwapQuoteBuyExactInput(t *testing.T) {
	m := newSpreadMarket(t)
	referral := uint16(2_000)

	quote, err := helpers.GetSwapQuote(m, types.QuoteParams{
		SwapType:            types.SwapTypeBuy,
		SwapAmountType:      types.ExactInput,
		Amount:              100_000_000,
		ReferralFeeShareBps: &referral,
	})
	require.NoError(t, err)

	assert.Greater(t, quote.BaseAmount, uint64(0))
	assert.Equal(t, uint64(100_000_000), quote.QuoteAmount)
	assert.Greater(t, quote.SwapFee, uint64(0))
	assert.Greater(t, quote.ReferralFee, uint64(0))
	assert.Equal(t, quote.SwapFee, quote.CreatorFee+quote.StakingFee+quote.ProtocolFee+quote.ReferralFee)
}

func TestGetSwapQuoteSellExactOutput(t *testing.T) {
	m := newSpreadMarket(t)
	m.BaseReserve = totalSupply - 2_000_000_000_000

	quote, err := helpers.GetSwapQuote(m, types.QuoteParams{
		SwapType:       types.SwapTypeSell,
		SwapAmountType: types.ExactOutput,
		Amount:         50_000_000,
	})
	require.NoError(t, err)

	assert.Greater(t, quote.BaseAmount, uint64(0))
	assert.Equal(t, uint64(50_000_000), quote.QuoteAmount)
	assert.Equal(t, quote.SwapFee, quote.CreatorFee+quote.StakingFee+quote.ProtocolFee+quote.ReferralFee)
}
