package types

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arenacrypto"
)

// BankKeeper moves native coin for registration fees.
type BankKeeper interface {
	SendCoins(ctx context.Context, from, to arenacrypto.Address, amount sdkmath.Int) error
}

// TokenMinter is the reward-token sub-ledger. Only the registered authority of
// a token may mint it.
type TokenMinter interface {
	CreateToken(ctx context.Context, token arenacrypto.Hash, authority arenacrypto.Address, decimals uint8) error
	HasToken(ctx context.Context, token arenacrypto.Hash) (bool, error)
	Mint(ctx context.Context, authority arenacrypto.Address, token arenacrypto.Hash, to arenacrypto.Address, amount sdkmath.Int) error
}

// RandomnessSource yields the seed commitment captured when a tournament
// starts: the originating sequence number and a 32-byte hash.
type RandomnessSource interface {
	RecentBlockHash(ctx context.Context) (uint64, arenacrypto.Hash, error)
}
