package tokenmill

import "github.com/gagliardetto/solana-go"

var (
	// Token Mill program ID.
	//  ProgramID = solana.MustPublicKeyFromBase58("JoeaRXgtME3jAoz5WuFXGEndfv4NPH9nBxsLq44hk9J")
	ProgramID = solana.MustPublicKeyFromBase58("JoeaRXgtME3jAoz5WuFXGEndfv4NPH9nBxsLq44hk9J")
)
