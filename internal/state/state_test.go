package state_test

import (
	"context"
	"testing"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/state"
)

func keys(t *testing.T, it interface {
	Valid() bool
	Next()
	Key() []byte
	Close() error
}) []string {
	t.Helper()
	defer func() { require.NoError(t, it.Close()) }()
	var out []string
	for ; it.Valid(); it.Next() {
		out = append(out, string(it.Key()))
	}
	return out
}

func TestBranch_WritesStayBufferedUntilWrite(t *testing.T) {
	db := dbm.NewMemDB()
	parent := state.NewDBStore(db)
	require.NoError(t, parent.Set([]byte("a"), []byte("1")))

	b := state.NewBranch(parent)
	require.NoError(t, b.Set([]byte("b"), []byte("2")))
	require.NoError(t, b.Delete([]byte("a")))

	got, err := b.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	has, err := parent.Has([]byte("b"))
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, b.Write())
	require.Zero(t, b.Len())

	got, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)
	has, err = parent.Has([]byte("a"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestBranch_DiscardLeavesParentUntouched(t *testing.T) {
	parent := state.NewDBStore(dbm.NewMemDB())
	require.NoError(t, parent.Set([]byte("k"), []byte("v")))

	b := state.NewBranch(parent)
	require.NoError(t, b.Set([]byte("k"), []byte("changed")))

	got, err := parent.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestBranch_IteratorMergesParentAndChanges(t *testing.T) {
	parent := state.NewDBStore(dbm.NewMemDB())
	for _, k := range []string{"a", "c", "e"} {
		require.NoError(t, parent.Set([]byte(k), []byte(k)))
	}

	b := state.NewBranch(parent)
	require.NoError(t, b.Set([]byte("b"), []byte("b")))
	require.NoError(t, b.Delete([]byte("c")))
	require.NoError(t, b.Set([]byte("z"), []byte("z")))

	it, err := b.Iterator([]byte("a"), []byte("f"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "e"}, keys(t, it))

	rit, err := b.ReverseIterator(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"z", "e", "b", "a"}, keys(t, rit))
}

func TestBranch_NestedWriteReachesOuterOnly(t *testing.T) {
	parent := state.NewDBStore(dbm.NewMemDB())
	outer := state.NewBranch(parent)
	inner := state.NewBranch(outer)

	require.NoError(t, inner.Set([]byte("x"), []byte("1")))
	require.NoError(t, inner.Write())

	got, err := outer.Get([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	has, err := parent.Has([]byte("x"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestCommit_FlushesBranchIntoDB(t *testing.T) {
	db := dbm.NewMemDB()
	b := state.NewBranch(state.NewDBStore(db))
	require.NoError(t, b.Set([]byte("k1"), []byte("v1")))
	require.NoError(t, b.Set([]byte("k2"), []byte("v2")))
	require.NoError(t, b.Delete([]byte("k2")))

	require.NoError(t, state.Commit(db, b))
	require.Zero(t, b.Len())

	got, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)
	has, err := db.Has([]byte("k2"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestPrefixStore_IsolatesNamespaces(t *testing.T) {
	root := state.NewBranch(state.NewDBStore(dbm.NewMemDB()))
	a := state.NewPrefixStore(root, []byte("arena/"))
	bank := state.NewPrefixStore(root, []byte("bank/"))

	require.NoError(t, a.Set([]byte{0x01}, []byte("cfg")))
	require.NoError(t, bank.Set([]byte{0x01}, []byte("bal")))

	got, err := a.Get([]byte{0x01})
	require.NoError(t, err)
	require.Equal(t, []byte("cfg"), got)

	raw, err := root.Get([]byte("bank/\x01"))
	require.NoError(t, err)
	require.Equal(t, []byte("bal"), raw)

	it, err := a.Iterator(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"\x01"}, keys(t, it))
}

func TestPrefixEndBytes(t *testing.T) {
	require.Equal(t, []byte{0x02}, state.PrefixEndBytes([]byte{0x01}))
	require.Equal(t, []byte{0x02}, state.PrefixEndBytes([]byte{0x01, 0xff}))
	require.Nil(t, state.PrefixEndBytes([]byte{0xff, 0xff}))
	require.Nil(t, state.PrefixEndBytes(nil))
}

func TestAppHash_IgnoresMetaAndTracksContent(t *testing.T) {
	s := state.NewBranch(state.NewDBStore(dbm.NewMemDB()))
	require.NoError(t, s.Set([]byte("arena/\x01"), []byte("x")))

	h1, err := state.AppHash(s)
	require.NoError(t, err)
	require.Len(t, h1, 32)

	require.NoError(t, s.Set([]byte("meta/height"), []byte("7")))
	h2, err := state.AppHash(s)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	require.NoError(t, s.Set([]byte("arena/\x02"), []byte("y")))
	h3, err := state.AppHash(s)
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

func TestContext_StoreServiceAndEvents(t *testing.T) {
	root := state.NewBranch(state.NewDBStore(dbm.NewMemDB()))
	hash := make([]byte, 32)
	hash[0] = 0xab
	ctx, em := state.NewContext(context.Background(), root, state.BlockInfo{
		ChainID: "arena-test",
		Height:  12,
		Time:    time.Unix(1_700_000_000, 0).UTC(),
		Hash:    hash,
	})

	svc := state.NewKVStoreService("arena")
	require.NoError(t, svc.OpenKVStore(ctx).Set([]byte{0x05}, []byte("m")))
	raw, err := root.Get([]byte("arena/\x05"))
	require.NoError(t, err)
	require.Equal(t, []byte("m"), raw)

	require.Equal(t, int64(1_700_000_000), state.BlockTime(ctx))

	slot, seed, err := state.BlockRandomness{}.RecentBlockHash(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(12), slot)
	require.Equal(t, byte(0xab), seed[0])

	state.EventManagerFromContext(ctx).EmitEvent(state.NewEvent("TournamentCreated", state.NewAttribute("tournamentId", "1")))
	evs := em.Events()
	require.Len(t, evs, 1)
	require.Equal(t, "1", evs[0].Attr("tournamentId"))
	require.Equal(t, "", evs[0].Attr("missing"))
}

func TestBlockRandomness_RequiresBlockHash(t *testing.T) {
	ctx, _ := state.NewContext(context.Background(), state.NewDBStore(dbm.NewMemDB()), state.BlockInfo{Height: 3})
	_, _, err := state.BlockRandomness{}.RecentBlockHash(ctx)
	require.ErrorContains(t, err, "block hash must be 32 bytes")
}
