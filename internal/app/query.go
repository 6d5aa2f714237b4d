package app

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"

	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/bank"
	"pokerarena/internal/state"
)

// BalanceResponse is the /balance query result.
type BalanceResponse struct {
	Address arenacrypto.Address `json:"address"`
	Denom   string              `json:"denom"`
	Balance sdkmath.Int         `json:"balance"`
}

// TokenBalanceResponse is the /token query result.
type TokenBalanceResponse struct {
	Token   arenacrypto.Hash    `json:"token"`
	Owner   arenacrypto.Address `json:"owner"`
	Balance sdkmath.Int         `json:"balance"`
}

// Query serves reads against committed state. Paths:
//   - /config
//   - /tournaments
//   - /tournament/<id>[/registrations|/standings]
//   - /registration/<id>/<wallet>
//   - /stats/<wallet>
//   - /leaderboard?page=&per_page=
//   - /balance/<addr>
//   - /token/<token>/<owner>
func (a *ArenaApp) Query(ctx context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	qctx, _ := state.NewContext(ctx, a.root, state.BlockInfo{ChainID: a.chainID, Height: a.height})
	v, err := a.query(qctx, strings.TrimSpace(req.Path))
	if err != nil {
		codespace, code, logMsg := errorsmod.ABCIInfo(wrapPlumbing(err), false)
		return &abci.QueryResponse{Code: code, Codespace: codespace, Log: logMsg, Height: a.height}, nil
	}
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &abci.QueryResponse{Code: abci.CodeTypeOK, Value: bz, Height: a.height}, nil
}

func (a *ArenaApp) query(ctx context.Context, raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrUnknownRequest.Wrapf("invalid query path %q", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	k := a.arenaKeeper

	switch {
	case len(parts) == 1 && parts[0] == "config":
		return k.QueryConfig(ctx)
	case len(parts) == 1 && parts[0] == "tournaments":
		return k.QueryTournaments(ctx)
	case len(parts) >= 2 && len(parts) <= 3 && parts[0] == "tournament":
		id, err := parseID(parts[1])
		if err != nil {
			return nil, err
		}
		if len(parts) == 2 {
			return k.QueryTournament(ctx, id)
		}
		switch parts[2] {
		case "registrations":
			return k.QueryRegistrations(ctx, id)
		case "standings":
			return k.QueryStandings(ctx, id)
		}
	case len(parts) == 3 && parts[0] == "registration":
		id, err := parseID(parts[1])
		if err != nil {
			return nil, err
		}
		wallet, err := parseAddress(parts[2])
		if err != nil {
			return nil, err
		}
		return k.QueryRegistration(ctx, id, wallet)
	case len(parts) == 2 && parts[0] == "stats":
		wallet, err := parseAddress(parts[1])
		if err != nil {
			return nil, err
		}
		return k.QueryPlayerStats(ctx, wallet)
	case len(parts) == 1 && parts[0] == "leaderboard":
		page, err := parseIntParam(u.Query(), "page")
		if err != nil {
			return nil, err
		}
		perPage, err := parseIntParam(u.Query(), "per_page")
		if err != nil {
			return nil, err
		}
		return k.QueryLeaderboard(ctx, page, perPage)
	case len(parts) == 2 && parts[0] == "balance":
		addr, err := parseAddress(parts[1])
		if err != nil {
			return nil, err
		}
		bal, err := a.bankKeeper.GetBalance(ctx, addr)
		if err != nil {
			return nil, err
		}
		return BalanceResponse{Address: addr, Denom: bank.NativeDenom, Balance: bal}, nil
	case len(parts) == 3 && parts[0] == "token":
		token, err := arenacrypto.ParseHash(parts[1])
		if err != nil {
			return nil, ErrUnknownRequest.Wrapf("token: %v", err)
		}
		owner, err := parseAddress(parts[2])
		if err != nil {
			return nil, err
		}
		bal, err := a.bankKeeper.GetTokenBalance(ctx, token, owner)
		if err != nil {
			return nil, err
		}
		return TokenBalanceResponse{Token: token, Owner: owner, Balance: bal}, nil
	}
	return nil, ErrUnknownRequest.Wrapf("unknown query path %q", raw)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrUnknownRequest.Wrapf("invalid tournament id %q", s)
	}
	return id, nil
}

func parseAddress(s string) (arenacrypto.Address, error) {
	addr, err := arenacrypto.ParseAddress(s)
	if err != nil {
		return arenacrypto.Address{}, ErrUnknownRequest.Wrapf("invalid address %q: %v", s, err)
	}
	return addr, nil
}

func parseIntParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrUnknownRequest.Wrapf("invalid %s %q", name, raw)
	}
	return n, nil
}
