package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"

	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/state"
)

type Keeper struct {
	storeService corestore.KVStoreService
	bankKeeper   types.BankKeeper
	tokenMinter  types.TokenMinter
	randomness   types.RandomnessSource
	logger       log.Logger
}

func NewKeeper(
	storeService corestore.KVStoreService,
	bankKeeper types.BankKeeper,
	tokenMinter types.TokenMinter,
	randomness types.RandomnessSource,
	logger log.Logger,
) Keeper {
	if storeService == nil {
		panic("arena keeper: store service is nil")
	}
	if bankKeeper == nil {
		panic("arena keeper: bank keeper is nil")
	}
	if tokenMinter == nil {
		panic("arena keeper: token minter is nil")
	}
	if randomness == nil {
		panic("arena keeper: randomness source is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return Keeper{
		storeService: storeService,
		bankKeeper:   bankKeeper,
		tokenMinter:  tokenMinter,
		randomness:   randomness,
		logger:       logger,
	}
}

func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

func getJSON[T any](ctx context.Context, k Keeper, key []byte) (*T, error) {
	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(key)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(bz, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return &v, nil
}

func setJSON(ctx context.Context, k Keeper, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return k.storeService.OpenKVStore(ctx).Set(key, bz)
}

func (k Keeper) GetConfig(ctx context.Context) (*types.Config, error) {
	return getJSON[types.Config](ctx, k, types.ConfigKey)
}

func (k Keeper) SetConfig(ctx context.Context, cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return setJSON(ctx, k, types.ConfigKey, cfg)
}

func (k Keeper) GetTournament(ctx context.Context, id uint64) (*types.Tournament, error) {
	return getJSON[types.Tournament](ctx, k, types.TournamentKey(id))
}

func (k Keeper) SetTournament(ctx context.Context, t *types.Tournament) error {
	if t == nil {
		return fmt.Errorf("tournament is nil")
	}
	return setJSON(ctx, k, types.TournamentKey(t.ID), t)
}

func (k Keeper) GetRegistration(ctx context.Context, id uint64, wallet arenacrypto.Address) (*types.Registration, error) {
	return getJSON[types.Registration](ctx, k, types.RegistrationKey(id, wallet))
}

func (k Keeper) SetRegistration(ctx context.Context, r *types.Registration) error {
	if r == nil {
		return fmt.Errorf("registration is nil")
	}
	return setJSON(ctx, k, types.RegistrationKey(r.TournamentID, r.Wallet), r)
}

func (k Keeper) GetPlayerStats(ctx context.Context, wallet arenacrypto.Address) (*types.PlayerStats, error) {
	return getJSON[types.PlayerStats](ctx, k, types.StatsKey(wallet))
}

func (k Keeper) SetPlayerStats(ctx context.Context, s *types.PlayerStats) error {
	if s == nil {
		return fmt.Errorf("player stats is nil")
	}
	return setJSON(ctx, k, types.StatsKey(s.Wallet), s)
}

func (k Keeper) GetMintAuthority(ctx context.Context) (*types.MintAuthority, error) {
	return getJSON[types.MintAuthority](ctx, k, types.MintAuthorityKey)
}

func (k Keeper) SetMintAuthority(ctx context.Context, a *types.MintAuthority) error {
	if a == nil {
		return fmt.Errorf("mint authority is nil")
	}
	return setJSON(ctx, k, types.MintAuthorityKey, a)
}

func (k Keeper) iterate(ctx context.Context, prefix []byte, cb func(key, value []byte) (stop bool, err error)) error {
	store := k.storeService.OpenKVStore(ctx)
	it, err := store.Iterator(prefix, state.PrefixEndBytes(prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		stop, err := cb(it.Key(), it.Value())
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return it.Error()
}

func (k Keeper) IterateTournaments(ctx context.Context, cb func(t types.Tournament) (stop bool)) error {
	return k.iterate(ctx, types.TournamentKeyPrefix, func(key, value []byte) (bool, error) {
		if len(key) != 1+8 {
			return false, nil
		}
		var t types.Tournament
		if err := json.Unmarshal(value, &t); err != nil {
			return false, fmt.Errorf("decode tournament: %w", err)
		}
		return cb(t), nil
	})
}

func (k Keeper) IterateRegistrations(ctx context.Context, id uint64, cb func(r types.Registration) (stop bool)) error {
	return k.iterate(ctx, types.RegistrationPrefix(id), func(key, value []byte) (bool, error) {
		if len(key) != 1+8+arenacrypto.Size {
			return false, nil
		}
		var r types.Registration
		if err := json.Unmarshal(value, &r); err != nil {
			return false, fmt.Errorf("decode registration: %w", err)
		}
		return cb(r), nil
	})
}

func (k Keeper) IteratePlayerStats(ctx context.Context, cb func(s types.PlayerStats) (stop bool)) error {
	return k.iterate(ctx, types.StatsKeyPrefix, func(key, value []byte) (bool, error) {
		if len(key) != 1+arenacrypto.Size {
			return false, nil
		}
		var s types.PlayerStats
		if err := json.Unmarshal(value, &s); err != nil {
			return false, fmt.Errorf("decode player stats: %w", err)
		}
		return cb(s), nil
	})
}

// requireAdmin loads the config and checks signer against its admin.
func (k Keeper) requireAdmin(ctx context.Context, signer arenacrypto.Address) (*types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, types.ErrNotInitialized
	}
	if cfg.Admin != signer {
		return nil, types.ErrUnauthorized.Wrapf("signer %s is not the arena admin", signer)
	}
	return cfg, nil
}

func (k Keeper) mustTournament(ctx context.Context, id uint64) (*types.Tournament, error) {
	t, err := k.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, types.ErrTournamentNotFound.Wrapf("tournament %d", id)
	}
	return t, nil
}

func (k Keeper) mustRegistration(ctx context.Context, id uint64, wallet arenacrypto.Address) (*types.Registration, error) {
	r, err := k.GetRegistration(ctx, id, wallet)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, types.ErrRegistrationNotFound.Wrapf("tournament %d wallet %s", id, wallet)
	}
	return r, nil
}
