package keeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
)

func TestQueryLeaderboard(t *testing.T) {
	e := newKeeper(t, time.Unix(100, 0).UTC())
	e.initArena(t)
	a, b, c := addr(0x0a), addr(0x0b), addr(0x0c)
	id := e.completedTournament(t, a, b, c)
	require.NoError(t, e.record(id, a, 2, 300))
	require.NoError(t, e.record(id, b, 1, 900))
	require.NoError(t, e.record(id, c, 3, 0))

	lb, err := e.k.QueryLeaderboard(e.ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, lb.Page)
	require.Equal(t, types.DefaultLeaderboardPerPage, lb.PerPage)
	require.Equal(t, 2, lb.Total)
	require.Len(t, lb.Entries, 2)
	require.Equal(t, b, lb.Entries[0].Stats.Wallet)
	require.Equal(t, 1, lb.Entries[0].Rank)
	require.Equal(t, a, lb.Entries[1].Stats.Wallet)

	lb, err = e.k.QueryLeaderboard(e.ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 1)
	require.Equal(t, 2, lb.Entries[0].Rank)

	lb, err = e.k.QueryLeaderboard(e.ctx, 5, 1)
	require.NoError(t, err)
	require.Empty(t, lb.Entries)

	_, err = e.k.QueryLeaderboard(e.ctx, 1, types.MaxLeaderboardPerPage+1)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = e.k.QueryLeaderboard(e.ctx, -1, 10)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestQueryStandings_MatchesCommittedHash(t *testing.T) {
	e := newKeeper(t, time.Unix(100, 0).UTC())
	e.initArena(t)
	a, b := addr(0x0a), addr(0x0b)

	rank1, rank2 := uint16(1), uint16(2)
	p1, p2 := uint64(500), uint64(100)
	h1, h2 := uint32(40), uint32(40)
	e1, e2 := uint8(1), uint8(1)
	expected := types.StandingsFromRegistrations(1, []types.Registration{
		{Wallet: a, AgentName: "agent", FinalRank: &rank1, PointsAwarded: &p1, HandsPlayed: &h1, Eliminations: &e1},
		{Wallet: b, AgentName: "agent", FinalRank: &rank2, PointsAwarded: &p2, HandsPlayed: &h2, Eliminations: &e2},
	})
	committed, err := expected.Hash()
	require.NoError(t, err)

	id := e.openTournament(t, 2)
	require.Equal(t, uint64(1), id)
	require.NoError(t, e.register(id, a, types.TierFree))
	require.NoError(t, e.register(id, b, types.TierFree))
	_, err = e.ms.StartTournament(e.ctx, &types.MsgStartTournament{Admin: e.admin, TournamentID: id})
	require.NoError(t, err)
	_, err = e.ms.FinalizeTournament(e.ctx, &types.MsgFinalizeTournament{Admin: e.admin, TournamentID: id, ResultsHash: committed, Winner: a})
	require.NoError(t, err)

	require.NoError(t, e.record(id, a, 1, 500))
	resp, err := e.k.QueryStandings(e.ctx, id)
	require.NoError(t, err)
	require.False(t, resp.Complete)
	require.False(t, resp.Matches)

	require.NoError(t, e.record(id, b, 2, 100))
	resp, err = e.k.QueryStandings(e.ctx, id)
	require.NoError(t, err)
	require.True(t, resp.Complete)
	require.True(t, resp.Matches)
	require.Equal(t, committed, resp.Hash)
}

func TestQueryNotFound(t *testing.T) {
	e := newKeeper(t, time.Unix(100, 0).UTC())

	_, err := e.k.QueryConfig(e.ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)

	e.initArena(t)
	_, err = e.k.QueryTournament(e.ctx, 7)
	require.ErrorIs(t, err, types.ErrTournamentNotFound)
	_, err = e.k.QueryRegistrations(e.ctx, 7)
	require.ErrorIs(t, err, types.ErrTournamentNotFound)
	_, err = e.k.QueryPlayerStats(e.ctx, arenacrypto.Address{0x01})
	require.ErrorIs(t, err, types.ErrStatsNotFound)

	list, err := e.k.QueryTournaments(e.ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
