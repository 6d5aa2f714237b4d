package arenacrypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress_TextRoundTripAndPrefix(t *testing.T) {
	k := PrivKeyFromSecret([]byte("alice"))
	a := k.Address()

	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.Equal(t, `"`+a.String()+`"`, string(b))
	require.Equal(t, "0x", a.String()[:2])

	var back Address
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, a, back)

	// Prefix is optional on input.
	parsed, err := ParseAddress(a.String()[2:])
	require.NoError(t, err)
	require.Equal(t, a, parsed)
}

func TestParseHash_RejectsWrongLength(t *testing.T) {
	_, err := ParseHash("0x0102")
	require.ErrorContains(t, err, "want 32 bytes")
	_, err = ParseHash("0xzz")
	require.Error(t, err)
	_, err = ParseHash("")
	require.Error(t, err)
}

func TestHashDomain_LengthPrefixed(t *testing.T) {
	h1 := HashDomain("d", []byte("ab"), []byte("c"))
	h2 := HashDomain("d", []byte("a"), []byte("bc"))
	require.NotEqual(t, h1, h2)
	require.Equal(t, h1, HashDomain("d", []byte("ab"), []byte("c")))
	require.NotEqual(t, h1, HashDomain("e", []byte("ab"), []byte("c")))
}

func TestSignVerify(t *testing.T) {
	k := PrivKeyFromSecret([]byte("admin"))
	msg := []byte("hello")
	sig, err := k.Sign(msg)
	require.NoError(t, err)
	require.True(t, Verify(k.Address(), msg, sig))
	require.False(t, Verify(k.Address(), []byte("other"), sig))
	require.False(t, Verify(PrivKeyFromSecret([]byte("mallory")).Address(), msg, sig))
	require.False(t, Verify(k.Address(), msg, sig[:10]))

	back, err := PrivKeyFromHex(k.Hex())
	require.NoError(t, err)
	require.Equal(t, k.Address(), back.Address())
}
