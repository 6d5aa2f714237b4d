package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pokerarena/internal/app"
	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/codec"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResultsHashMatchesStandings(t *testing.T) {
	a := arenacrypto.PrivKeyFromSecret([]byte("a")).Address()
	b := arenacrypto.PrivKeyFromSecret([]byte("b")).Address()
	s := types.Standings{TournamentID: 3, Standings: []types.Standing{
		{Rank: 2, Wallet: b, PointsAwarded: 100},
		{Rank: 1, Wallet: a, PointsAwarded: 500},
	}}
	in, err := json.Marshal(s)
	require.NoError(t, err)

	out, err := execute(t, string(in), "results-hash", "-")
	require.NoError(t, err)

	var got resultsHashOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want, err := s.Hash()
	require.NoError(t, err)
	require.Equal(t, want.String(), got.ResultsHash)
	require.Equal(t, a, got.Standings.Standings[0].Wallet)
}

func TestGenesisAccounts(t *testing.T) {
	addr := arenacrypto.PrivKeyFromSecret([]byte("funded")).Address()
	out, err := execute(t, "", "genesis", "--account", addr.String()+"=1500uchip")
	require.NoError(t, err)

	var gs app.GenesisState
	require.NoError(t, json.Unmarshal([]byte(out), &gs))
	require.Len(t, gs.Bank.Balances, 1)
	require.Equal(t, addr, gs.Bank.Balances[0].Address)
	require.Equal(t, "1500", gs.Bank.Balances[0].Amount.String())

	_, err = execute(t, "", "genesis", "--account", addr.String())
	require.Error(t, err)
	_, err = execute(t, "", "genesis", "--account", addr.String()+"=lots")
	require.Error(t, err)
}

func TestTxSignProducesVerifiableEnvelope(t *testing.T) {
	key := arenacrypto.PrivKeyFromSecret([]byte("admin"))
	out, err := execute(t, "", "tx", "sign", "--secret", key.Hex(), "--nonce", "9",
		codec.TypeStartTournament, `{"admin":"`+key.Address().String()+`", "tournament_id": 4}`)
	require.NoError(t, err)

	env, err := codec.DecodeTxEnvelope([]byte(strings.TrimSpace(out)))
	require.NoError(t, err)
	require.Equal(t, "9", env.Nonce)
	require.Equal(t, key.Address().String(), env.Signer)
	require.True(t, arenacrypto.Verify(key.Address(), codec.SignBytes(env.Type, env.Value, env.Nonce, env.Signer), env.Sig))

	var msg types.MsgStartTournament
	require.NoError(t, json.Unmarshal(env.Value, &msg))
	require.Equal(t, uint64(4), msg.TournamentID)

	_, err = execute(t, "", "tx", "sign", "--secret", key.Hex(), codec.TypeStartTournament, "{not json")
	require.Error(t, err)
}

func TestKeysShowMatchesNew(t *testing.T) {
	out, err := execute(t, "", "keys", "new")
	require.NoError(t, err)
	var created keyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	out, err = execute(t, "", "keys", "show", created.Secret)
	require.NoError(t, err)
	var shown keyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	require.Equal(t, created.Address, shown.Address)
	require.Empty(t, shown.Secret)
}

func TestConfigInitAndShow(t *testing.T) {
	home := t.TempDir()
	_, err := execute(t, "", "config", "init", "--home", home)
	require.NoError(t, err)

	out, err := execute(t, "", "config", "show", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, home)
}
