package bank_test

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/bank"
	"pokerarena/internal/state"
)

func newBank(t *testing.T) (context.Context, bank.Keeper, *state.EventManager) {
	t.Helper()
	store := state.NewBranch(state.NewDBStore(dbm.NewMemDB()))
	ctx, em := state.NewContext(context.Background(), store, state.BlockInfo{Height: 1})
	return ctx, bank.NewKeeper(state.NewKVStoreService(bank.StoreKey), nil), em
}

func TestSendCoins(t *testing.T) {
	ctx, k, em := newBank(t)
	alice, bob := arenacrypto.Address{0x0a}, arenacrypto.Address{0x0b}

	require.NoError(t, k.InitGenesis(ctx, bank.GenesisState{Balances: []bank.Balance{
		{Address: alice, Amount: sdkmath.NewInt(150_000_000)},
	}}))

	require.NoError(t, k.SendCoins(ctx, alice, bob, sdkmath.NewInt(100_000_000)))

	bal, err := k.GetBalance(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "50000000", bal.String())
	bal, err = k.GetBalance(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, "100000000", bal.String())

	err = k.SendCoins(ctx, alice, bob, sdkmath.NewInt(100_000_000))
	require.ErrorIs(t, err, bank.ErrInsufficientFunds)
	bal, err = k.GetBalance(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "50000000", bal.String())

	require.ErrorIs(t, k.SendCoins(ctx, alice, bob, sdkmath.NewInt(-1)), bank.ErrInvalidAmount)
	require.NoError(t, k.SendCoins(ctx, alice, bob, sdkmath.ZeroInt()))

	evs := em.Events()
	require.Len(t, evs, 1)
	require.Equal(t, bank.EventTypeCoinsSent, evs[0].Type)
	require.Equal(t, "100000000"+bank.NativeDenom, evs[0].Attr("amount"))
}

func TestMint_OnlyAuthority(t *testing.T) {
	ctx, k, _ := newBank(t)
	token := arenacrypto.Hash{0x70}
	authority, player := arenacrypto.Address{0xa1}, arenacrypto.Address{0x0a}

	require.ErrorIs(t, k.Mint(ctx, authority, token, player, sdkmath.NewInt(5)), bank.ErrTokenNotFound)

	require.NoError(t, k.CreateToken(ctx, token, authority, 9))
	require.ErrorIs(t, k.CreateToken(ctx, token, authority, 9), bank.ErrTokenExists)

	require.ErrorIs(t, k.Mint(ctx, player, token, player, sdkmath.NewInt(5)), bank.ErrUnauthorizedMinter)
	require.ErrorIs(t, k.Mint(ctx, authority, token, player, sdkmath.ZeroInt()), bank.ErrInvalidAmount)

	require.NoError(t, k.Mint(ctx, authority, token, player, sdkmath.NewInt(500)))
	require.NoError(t, k.Mint(ctx, authority, token, player, sdkmath.NewInt(100)))

	held, err := k.GetTokenBalance(ctx, token, player)
	require.NoError(t, err)
	require.Equal(t, "600", held.String())

	tok, err := k.GetToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "600", tok.Supply.String())
	require.Equal(t, uint8(9), tok.Decimals)

	// Minting never touches native balances.
	bal, err := k.GetBalance(ctx, authority)
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}

func TestGenesisValidate(t *testing.T) {
	a := arenacrypto.Address{0x01}
	require.NoError(t, bank.GenesisState{}.Validate())
	require.ErrorIs(t, bank.GenesisState{Balances: []bank.Balance{{Address: a, Amount: sdkmath.NewInt(1)}, {Address: a, Amount: sdkmath.NewInt(2)}}}.Validate(), bank.ErrInvalidAddress)
	require.ErrorIs(t, bank.GenesisState{Balances: []bank.Balance{{Address: a, Amount: sdkmath.NewInt(-2)}}}.Validate(), bank.ErrInvalidAmount)
	require.ErrorIs(t, bank.GenesisState{Balances: []bank.Balance{{Amount: sdkmath.NewInt(2)}}}.Validate(), bank.ErrInvalidAddress)
}
