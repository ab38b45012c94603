package state

import (
	"bytes"
	"fmt"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/jup-ag/sol-token-mill/anchor"
	"github.com/jup-ag/sol-token-mill/constants"
)

// MarketDiscriminator prefixes every market account.
var MarketDiscriminator = anchor.AccountDiscriminator("Market")

// marketLayout is the on-chain byte layout of the market account after
// the discriminator. The account is zero copy on chain, so the padding
// fields are part of the wire format.
type marketLayout struct {
	Config  solana.PublicKey
	Creator solana.PublicKey

	BaseTokenMint  solana.PublicKey
	QuoteTokenMint solana.PublicKey

	BaseReserve uint64

	BidPrices [constants.PricesLength]uint64
	AskPrices [constants.PricesLength]uint64

	WidthScaled uint64
	TotalSupply uint64

	StakingFeeShare uint16
	CreatorFeeShare uint16
	FeesPadding     uint32

	PendingStakingFees uint64
	PendingCreatorFees uint64

	QuoteTokenDecimals uint8
	Bump               uint8
	Padding            [6]uint8
}

// DecodeMarket parses a fetched market account, discriminator included.
func DecodeMarket(data []byte) (*Market, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("market account data too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], MarketDiscriminator[:]) {
		return nil, fmt.Errorf("unexpected account discriminator %x", data[:8])
	}

	var layout marketLayout
	if err := ag_binary.NewBorshDecoder(data[8:]).Decode(&layout); err != nil {
		return nil, fmt.Errorf("decode market account: %w", err)
	}

	return &Market{
		Config:         layout.Config,
		Creator:        layout.Creator,
		BaseTokenMint:  layout.BaseTokenMint,
		QuoteTokenMint: layout.QuoteTokenMint,
		BaseReserve:    layout.BaseReserve,
		BidPrices:      layout.BidPrices,
		AskPrices:      layout.AskPrices,
		WidthScaled:    layout.WidthScaled,
		TotalSupply:    layout.TotalSupply,
		Fees: MarketFees{
			StakingFeeShare:    layout.StakingFeeShare,
			CreatorFeeShare:    layout.CreatorFeeShare,
			PendingStakingFees: layout.PendingStakingFees,
			PendingCreatorFees: layout.PendingCreatorFees,
		},
		QuoteTokenDecimals: layout.QuoteTokenDecimals,
		Bump:               layout.Bump,
	}, nil
}

// EncodeMarket serializes a market into the on-chain account layout,
// discriminator included.
func EncodeMarket(m *Market) ([]byte, error) {
	layout := marketLayout{
		Config:             m.Config,
		Creator:            m.Creator,
		BaseTokenMint:      m.BaseTokenMint,
		QuoteTokenMint:     m.QuoteTokenMint,
		BaseReserve:        m.BaseReserve,
		BidPrices:          m.BidPrices,
		AskPrices:          m.AskPrices,
		WidthScaled:        m.WidthScaled,
		TotalSupply:        m.TotalSupply,
		StakingFeeShare:    m.Fees.StakingFeeShare,
		CreatorFeeShare:    m.Fees.CreatorFeeShare,
		PendingStakingFees: m.Fees.PendingStakingFees,
		PendingCreatorFees: m.Fees.PendingCreatorFees,
		QuoteTokenDecimals: m.QuoteTokenDecimals,
		Bump:               m.Bump,
	}

	buf := new(bytes.Buffer)
	buf.Write(MarketDiscriminator[:])
	if err := ag_binary.NewBorshEncoder(buf).Encode(layout); err != nil {
		return nil, fmt.Errorf("encode market account: %w", err)
	}
	return buf.Bytes(), nil
}
