package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/app"
	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/codec"
)

type fakeQuerier struct {
	paths []string
	res   *abci.QueryResponse
	err   error
}

func (f *fakeQuerier) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	f.paths = append(f.paths, req.Path)
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &abci.QueryResponse{Value: []byte(`{"ok":true}`)}, nil
}

func (f *fakeQuerier) LastBlockHeight() int64 { return 42 }

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutesMapToQueryPaths(t *testing.T) {
	wallet := arenacrypto.PrivKeyFromSecret([]byte("wallet")).Address().String()
	cases := []struct {
		target, path string
	}{
		{"/v1/config", "/config"},
		{"/v1/tournaments", "/tournaments"},
		{"/v1/tournaments/7", "/tournament/7"},
		{"/v1/tournaments/7/registrations", "/tournament/7/registrations"},
		{"/v1/tournaments/7/registrations/" + wallet, "/registration/7/" + wallet},
		{"/v1/tournaments/7/standings", "/tournament/7/standings"},
		{"/v1/players/" + wallet + "/stats", "/stats/" + wallet},
		{"/v1/leaderboard", "/leaderboard"},
		{"/v1/leaderboard?page=2&per_page=10&x=1", "/leaderboard?page=2&per_page=10"},
		{"/v1/accounts/" + wallet + "/balance", "/balance/" + wallet},
		{"/v1/tokens/ab/balances/cd", "/token/ab/cd"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			q := &fakeQuerier{}
			rec := get(t, NewRouter(q, nil), tc.target)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, []string{tc.path}, q.paths)
			require.JSONEq(t, `{"ok":true}`, rec.Body.String())
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	q := &fakeQuerier{}
	rec := get(t, NewRouter(q, nil), "/v1/tournaments/abc")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, q.paths)
}

func TestHealth(t *testing.T) {
	rec := get(t, NewRouter(&fakeQuerier{}, nil), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, HealthResponse{Status: "ok", Height: 42}, body)
}

func TestCorrelationID(t *testing.T) {
	r := NewRouter(&fakeQuerier{}, nil)

	rec := get(t, r, "/health", CorrelationIDHeader, "req-123")
	require.Equal(t, "req-123", rec.Header().Get(CorrelationIDHeader))

	rec = get(t, r, "/health")
	require.Len(t, rec.Header().Get(CorrelationIDHeader), 36)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		res    *abci.QueryResponse
		err    error
		status int
	}{
		{
			name:   "tournament not found",
			res:    &abci.QueryResponse{Codespace: types.ModuleName, Code: types.ErrTournamentNotFound.ABCICode(), Log: "tournament not found"},
			status: http.StatusNotFound,
		},
		{
			name:   "invalid paging",
			res:    &abci.QueryResponse{Codespace: types.ModuleName, Code: types.ErrInvalidRequest.ABCICode(), Log: "per_page"},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad path argument",
			res:    &abci.QueryResponse{Codespace: app.ErrUnknownRequest.Codespace(), Code: app.ErrUnknownRequest.ABCICode()},
			status: http.StatusBadRequest,
		},
		{
			name:   "query transport error",
			err:    errors.New("closed"),
			status: http.StatusInternalServerError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, NewRouter(&fakeQuerier{res: tc.res, err: tc.err}, nil), "/v1/tournaments/1", CorrelationIDHeader, "cid")
			require.Equal(t, tc.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, "cid", body.CorrelationID)
			if tc.res != nil {
				require.Equal(t, tc.res.Code, body.Code)
			}
		})
	}
}

func TestAgainstArenaApp(t *testing.T) {
	a, err := app.New(dbm.NewMemDB(), log.NewNopLogger())
	require.NoError(t, err)
	_, err = a.InitChain(context.Background(), &abci.InitChainRequest{ChainId: "arena-test", InitialHeight: 1})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(a, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/config")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	admin := arenacrypto.PrivKeyFromSecret([]byte("admin"))
	treasury := arenacrypto.PrivKeyFromSecret([]byte("treasury")).Address()
	tx, err := codec.EncodeTx(admin, codec.TypeInitialize, types.MsgInitialize{Admin: admin.Address(), Treasury: treasury}, 1)
	require.NoError(t, err)

	hash := make([]byte, 32)
	fin, err := a.FinalizeBlock(context.Background(), &abci.FinalizeBlockRequest{Height: 1, Time: time.Unix(1_700_000_000, 0), Hash: hash, Txs: [][]byte{tx}})
	require.NoError(t, err)
	require.Zero(t, fin.TxResults[0].Code, fin.TxResults[0].Log)
	_, err = a.Commit(context.Background(), &abci.CommitRequest{})
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + "/v1/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg types.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	require.Equal(t, admin.Address(), cfg.Admin)
	require.Equal(t, treasury, cfg.Treasury)
	require.Zero(t, cfg.TournamentCount)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, int64(1), health.Height)
}
