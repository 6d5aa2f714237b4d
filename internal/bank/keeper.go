package bank

import (
	"context"
	"encoding/json"
	"fmt"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/state"
)

// Keeper owns native coin balances and the mint-only token ledger.
type Keeper struct {
	storeService corestore.KVStoreService
	logger       log.Logger
}

func NewKeeper(storeService corestore.KVStoreService, logger log.Logger) Keeper {
	if storeService == nil {
		panic("bank keeper: store service is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return Keeper{storeService: storeService, logger: logger}
}

func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+ModuleName)
}

func getInt(store corestore.KVStore, key []byte) (sdkmath.Int, error) {
	bz, err := store.Get(key)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if bz == nil {
		return sdkmath.ZeroInt(), nil
	}
	v, ok := sdkmath.NewIntFromString(string(bz))
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid amount encoding %q", bz)
	}
	return v, nil
}

func setInt(store corestore.KVStore, key []byte, v sdkmath.Int) error {
	if v.IsZero() {
		return store.Delete(key)
	}
	return store.Set(key, []byte(v.String()))
}

func (k Keeper) GetBalance(ctx context.Context, addr arenacrypto.Address) (sdkmath.Int, error) {
	return getInt(k.storeService.OpenKVStore(ctx), balanceKey(addr))
}

func (k Keeper) setBalance(ctx context.Context, addr arenacrypto.Address, amount sdkmath.Int) error {
	return setInt(k.storeService.OpenKVStore(ctx), balanceKey(addr), amount)
}

// AddCoins credits addr with newly issued native coin.
func (k Keeper) AddCoins(ctx context.Context, addr arenacrypto.Address, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("%s", amount)
	}
	bal, err := k.GetBalance(ctx, addr)
	if err != nil {
		return err
	}
	return k.setBalance(ctx, addr, bal.Add(amount))
}

// SendCoins moves native coin between accounts. A zero amount is a no-op.
func (k Keeper) SendCoins(ctx context.Context, from, to arenacrypto.Address, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("%s", amount)
	}
	if from.IsZero() || to.IsZero() {
		return ErrInvalidAddress.Wrap("zero address")
	}
	if amount.IsZero() {
		return nil
	}

	fromBal, err := k.GetBalance(ctx, from)
	if err != nil {
		return err
	}
	if fromBal.LT(amount) {
		return ErrInsufficientFunds.Wrapf("balance %s%s < %s%s", fromBal, NativeDenom, amount, NativeDenom)
	}
	if err := k.setBalance(ctx, from, fromBal.Sub(amount)); err != nil {
		return err
	}
	toBal, err := k.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	if err := k.setBalance(ctx, to, toBal.Add(amount)); err != nil {
		return err
	}

	state.EventManagerFromContext(ctx).EmitEvent(state.NewEvent(EventTypeCoinsSent,
		state.NewAttribute("from", from.String()),
		state.NewAttribute("to", to.String()),
		state.NewAttribute("amount", amount.String()+NativeDenom),
	))
	return nil
}

func (k Keeper) GetToken(ctx context.Context, token arenacrypto.Hash) (*Token, error) {
	bz, err := k.storeService.OpenKVStore(ctx).Get(tokenKey(token))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	var t Token
	if err := json.Unmarshal(bz, &t); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &t, nil
}

func (k Keeper) setToken(ctx context.Context, t *Token) error {
	bz, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return k.storeService.OpenKVStore(ctx).Set(tokenKey(t.ID), bz)
}

func (k Keeper) HasToken(ctx context.Context, token arenacrypto.Hash) (bool, error) {
	t, err := k.GetToken(ctx, token)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// CreateToken registers a token with zero supply and authority as its only
// minter.
func (k Keeper) CreateToken(ctx context.Context, token arenacrypto.Hash, authority arenacrypto.Address, decimals uint8) error {
	if token.IsZero() {
		return ErrTokenNotFound.Wrap("zero token id")
	}
	if authority.IsZero() {
		return ErrInvalidAddress.Wrap("zero authority")
	}
	exists, err := k.HasToken(ctx, token)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenExists.Wrapf("%s", token)
	}
	if err := k.setToken(ctx, &Token{ID: token, Authority: authority, Decimals: decimals, Supply: sdkmath.ZeroInt()}); err != nil {
		return err
	}

	state.EventManagerFromContext(ctx).EmitEvent(state.NewEvent(EventTypeTokenCreated,
		state.NewAttribute("token", token.String()),
		state.NewAttribute("authority", authority.String()),
		state.NewAttribute("decimals", fmt.Sprintf("%d", decimals)),
	))
	return nil
}

func (k Keeper) GetTokenBalance(ctx context.Context, token arenacrypto.Hash, owner arenacrypto.Address) (sdkmath.Int, error) {
	return getInt(k.storeService.OpenKVStore(ctx), holdingKey(token, owner))
}

// Mint credits amount of token to the holding owned by to.
func (k Keeper) Mint(ctx context.Context, authority arenacrypto.Address, token arenacrypto.Hash, to arenacrypto.Address, amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("%s", amount)
	}
	if to.IsZero() {
		return ErrInvalidAddress.Wrap("zero recipient")
	}
	t, err := k.GetToken(ctx, token)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTokenNotFound.Wrapf("%s", token)
	}
	if t.Authority != authority {
		return ErrUnauthorizedMinter.Wrapf("%s", authority)
	}

	t.Supply = t.Supply.Add(amount)
	if err := k.setToken(ctx, t); err != nil {
		return err
	}
	store := k.storeService.OpenKVStore(ctx)
	held, err := getInt(store, holdingKey(token, to))
	if err != nil {
		return err
	}
	if err := setInt(store, holdingKey(token, to), held.Add(amount)); err != nil {
		return err
	}

	state.EventManagerFromContext(ctx).EmitEvent(state.NewEvent(EventTypeTokensMinted,
		state.NewAttribute("token", token.String()),
		state.NewAttribute("to", to.String()),
		state.NewAttribute("amount", amount.String()),
	))
	return nil
}

func (k Keeper) InitGenesis(ctx context.Context, gs GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		if err := k.AddCoins(ctx, b.Address, b.Amount); err != nil {
			return err
		}
	}
	k.Logger().Info("bank genesis applied", "accounts", len(gs.Balances))
	return nil
}
