package keeper

import (
	"bytes"
	"context"
	"sort"

	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
)

func (k Keeper) QueryConfig(ctx context.Context) (*types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, types.ErrNotInitialized
	}
	return cfg, nil
}

func (k Keeper) QueryTournament(ctx context.Context, id uint64) (*types.Tournament, error) {
	return k.mustTournament(ctx, id)
}

func (k Keeper) QueryTournaments(ctx context.Context) ([]types.Tournament, error) {
	out := []types.Tournament{}
	err := k.IterateTournaments(ctx, func(t types.Tournament) bool {
		out = append(out, t)
		return false
	})
	return out, err
}

func (k Keeper) QueryRegistration(ctx context.Context, id uint64, wallet arenacrypto.Address) (*types.Registration, error) {
	return k.mustRegistration(ctx, id, wallet)
}

func (k Keeper) QueryRegistrations(ctx context.Context, id uint64) ([]types.Registration, error) {
	if _, err := k.mustTournament(ctx, id); err != nil {
		return nil, err
	}
	out := []types.Registration{}
	err := k.IterateRegistrations(ctx, id, func(r types.Registration) bool {
		out = append(out, r)
		return false
	})
	return out, err
}

func (k Keeper) QueryPlayerStats(ctx context.Context, wallet arenacrypto.Address) (*types.PlayerStats, error) {
	s, err := k.GetPlayerStats(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, types.ErrStatsNotFound.Wrapf("wallet %s", wallet)
	}
	return s, nil
}

// QueryLeaderboard ranks wallets with points by total points, most first.
// page is 1-based; perPage 0 selects the default.
func (k Keeper) QueryLeaderboard(ctx context.Context, page, perPage int) (*types.LeaderboardResponse, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = types.DefaultLeaderboardPerPage
	}
	if page < 1 {
		return nil, types.ErrInvalidRequest.Wrapf("page %d", page)
	}
	if perPage < 1 || perPage > types.MaxLeaderboardPerPage {
		return nil, types.ErrInvalidRequest.Wrapf("per_page must be within 1..%d", types.MaxLeaderboardPerPage)
	}

	var all []types.PlayerStats
	err := k.IteratePlayerStats(ctx, func(s types.PlayerStats) bool {
		if s.TotalPoints > 0 {
			all = append(all, s)
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TournamentsWon != b.TournamentsWon {
			return a.TournamentsWon > b.TournamentsWon
		}
		return bytes.Compare(a.Wallet[:], b.Wallet[:]) < 0
	})

	resp := &types.LeaderboardResponse{Page: page, PerPage: perPage, Total: len(all), Entries: []types.LeaderboardEntry{}}
	start := (page - 1) * perPage
	if start >= len(all) {
		return resp, nil
	}
	end := min(start+perPage, len(all))
	for i := start; i < end; i++ {
		resp.Entries = append(resp.Entries, types.LeaderboardEntry{Rank: i + 1, Stats: all[i]})
	}
	return resp, nil
}

// QueryStandings rebuilds a tournament's standings from recorded results and
// compares their hash with the one committed at finalization.
func (k Keeper) QueryStandings(ctx context.Context, id uint64) (*types.StandingsResponse, error) {
	t, err := k.mustTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	regs, err := k.QueryRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}

	standings := types.StandingsFromRegistrations(id, regs)
	h, err := standings.Hash()
	if err != nil {
		return nil, err
	}
	resp := &types.StandingsResponse{
		Standings:   standings,
		Hash:        h,
		ResultsHash: t.ResultsHash,
		Complete:    len(standings.Standings) == int(t.RegisteredPlayers),
	}
	resp.Matches = t.ResultsHash != nil && *t.ResultsHash == h
	return resp, nil
}
