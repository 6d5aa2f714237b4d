package state

import (
	"context"
	"fmt"
	"time"

	corestore "cosmossdk.io/core/store"

	"pokerarena/internal/arenacrypto"
)

type ctxKey int

const (
	storeCtxKey ctxKey = iota
	blockCtxKey
	eventsCtxKey
)

// BlockInfo is the ordering and timing data the runtime supplies to every
// operation of a block.
type BlockInfo struct {
	ChainID string
	Height  int64
	Time    time.Time
	Hash    []byte
}

// NewContext returns a context carrying store, block info and a fresh event
// manager.
func NewContext(parent context.Context, store corestore.KVStore, info BlockInfo) (context.Context, *EventManager) {
	em := NewEventManager()
	ctx := context.WithValue(parent, storeCtxKey, store)
	ctx = context.WithValue(ctx, blockCtxKey, info)
	ctx = context.WithValue(ctx, eventsCtxKey, em)
	return ctx, em
}

// WithStore swaps the store carried by ctx (for nested branches).
func WithStore(ctx context.Context, store corestore.KVStore) context.Context {
	return context.WithValue(ctx, storeCtxKey, store)
}

// StoreFromContext panics when ctx carries no store: every keeper call must
// run inside a context built by NewContext.
func StoreFromContext(ctx context.Context) corestore.KVStore {
	s, ok := ctx.Value(storeCtxKey).(corestore.KVStore)
	if !ok || s == nil {
		panic("state: context has no store")
	}
	return s
}

func BlockInfoFromContext(ctx context.Context) BlockInfo {
	info, _ := ctx.Value(blockCtxKey).(BlockInfo)
	return info
}

// BlockTime returns the block timestamp as unix seconds.
func BlockTime(ctx context.Context) int64 {
	info := BlockInfoFromContext(ctx)
	if info.Time.IsZero() {
		return 0
	}
	return info.Time.Unix()
}

// kvStoreService opens the module-namespaced view of the context store.
type kvStoreService struct {
	prefix []byte
}

var _ corestore.KVStoreService = kvStoreService{}

// NewKVStoreService returns a service whose stores are namespaced by
// storeKey + "/".
func NewKVStoreService(storeKey string) corestore.KVStoreService {
	return kvStoreService{prefix: []byte(storeKey + "/")}
}

func (s kvStoreService) OpenKVStore(ctx context.Context) corestore.KVStore {
	return NewPrefixStore(StoreFromContext(ctx), s.prefix)
}

// BlockRandomness reads the seed commitment for the current operation from
// the block the runtime is executing.
type BlockRandomness struct{}

// RecentBlockHash returns the executing block height and its 32-byte hash.
func (BlockRandomness) RecentBlockHash(ctx context.Context) (uint64, arenacrypto.Hash, error) {
	info := BlockInfoFromContext(ctx)
	if info.Height <= 0 {
		return 0, arenacrypto.Hash{}, fmt.Errorf("no block height in context")
	}
	if len(info.Hash) != arenacrypto.Size {
		return 0, arenacrypto.Hash{}, fmt.Errorf("block hash must be %d bytes, got %d", arenacrypto.Size, len(info.Hash))
	}
	var h arenacrypto.Hash
	copy(h[:], info.Hash)
	return uint64(info.Height), h, nil
}
