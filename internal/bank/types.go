package bank

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arenacrypto"
)

const (
	ModuleName = "bank"
	StoreKey   = ModuleName

	// NativeDenom names the base unit that registration fees are paid in.
	NativeDenom = "uchip"
)

var (
	// BalanceKeyPrefix stores native balances: BalanceKeyPrefix || addr.
	BalanceKeyPrefix = []byte{0x01}

	// TokenKeyPrefix stores Token metadata: TokenKeyPrefix || token.
	TokenKeyPrefix = []byte{0x02}

	// HoldingKeyPrefix stores token holdings: HoldingKeyPrefix || token || owner.
	HoldingKeyPrefix = []byte{0x03}
)

var (
	ErrInsufficientFunds  = errorsmod.Register(ModuleName, 2, "insufficient funds")
	ErrInvalidAmount      = errorsmod.Register(ModuleName, 3, "invalid amount")
	ErrTokenNotFound      = errorsmod.Register(ModuleName, 4, "token not found")
	ErrTokenExists        = errorsmod.Register(ModuleName, 5, "token already exists")
	ErrUnauthorizedMinter = errorsmod.Register(ModuleName, 6, "signer may not mint this token")
	ErrInvalidAddress     = errorsmod.Register(ModuleName, 7, "invalid address")
)

const (
	EventTypeCoinsSent    = "CoinsSent"
	EventTypeTokenCreated = "TokenCreated"
	EventTypeTokensMinted = "TokensMinted"
)

func balanceKey(addr arenacrypto.Address) []byte {
	bz := make([]byte, 0, 1+arenacrypto.Size)
	bz = append(bz, BalanceKeyPrefix...)
	return append(bz, addr[:]...)
}

func tokenKey(token arenacrypto.Hash) []byte {
	bz := make([]byte, 0, 1+arenacrypto.Size)
	bz = append(bz, TokenKeyPrefix...)
	return append(bz, token[:]...)
}

func holdingKey(token arenacrypto.Hash, owner arenacrypto.Address) []byte {
	bz := make([]byte, 0, 1+2*arenacrypto.Size)
	bz = append(bz, HoldingKeyPrefix...)
	bz = append(bz, token[:]...)
	return append(bz, owner[:]...)
}

// Token is a mint-only fungible token. Only Authority may mint it.
type Token struct {
	ID        arenacrypto.Hash    `json:"id"`
	Authority arenacrypto.Address `json:"authority"`
	Decimals  uint8               `json:"decimals"`
	Supply    sdkmath.Int         `json:"supply"`
}

type Balance struct {
	Address arenacrypto.Address `json:"address"`
	Amount  sdkmath.Int         `json:"amount"`
}

type GenesisState struct {
	Balances []Balance `json:"balances"`
}

func (gs GenesisState) Validate() error {
	seen := map[arenacrypto.Address]bool{}
	for _, b := range gs.Balances {
		if b.Address.IsZero() {
			return ErrInvalidAddress.Wrap("genesis balance for zero address")
		}
		if seen[b.Address] {
			return ErrInvalidAddress.Wrapf("duplicate genesis balance for %s", b.Address)
		}
		seen[b.Address] = true
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return ErrInvalidAmount.Wrapf("genesis balance for %s", b.Address)
		}
	}
	return nil
}
