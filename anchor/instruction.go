package anchor

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// InstructionDiscriminator returns the 8-byte anchor discriminator of a
// global instruction, sha256("global:<name>")[..8].
func InstructionDiscriminator(name string) [8]byte {
	return discriminator("global:" + name)
}

// AccountDiscriminator returns the 8-byte anchor discriminator of an
// account type, sha256("account:<name>")[..8].
func AccountDiscriminator(name string) [8]byte {
	return discriminator("account:" + name)
}

func discriminator(preimage string) [8]byte {
	sum := sha256.Sum256([]byte(preimage))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// NewInstruction assembles an anchor instruction: discriminator, borsh
// encoded args, account metas. encodeArgs may be nil for argument-less
// instructions.
func NewInstruction(
	programID solana.PublicKey,
	name string,
	accounts solana.AccountMetaSlice,
	encodeArgs func(encoder *ag_binary.Encoder) error,
) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	disc := InstructionDiscriminator(name)
	buf.Write(disc[:])

	if encodeArgs != nil {
		if err := encodeArgs(ag_binary.NewBorshEncoder(buf)); err != nil {
			return nil, fmt.Errorf("encode %s args: %w", name, err)
		}
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}
