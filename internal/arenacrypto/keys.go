package arenacrypto

import (
	"fmt"

	"github.com/cometbft/cometbft/crypto/ed25519"
)

// SignatureSize is the length of an ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// PrivKey wraps a cometbft ed25519 private key together with its Address.
type PrivKey struct {
	key ed25519.PrivKey
}

// PrivKeyFromSecret deterministically derives a key from an arbitrary secret.
// Used by devnet tooling and tests.
func PrivKeyFromSecret(secret []byte) PrivKey {
	return PrivKey{key: ed25519.GenPrivKeyFromSecret(secret)}
}

// GenPrivKey returns a fresh random key.
func GenPrivKey() PrivKey {
	return PrivKey{key: ed25519.GenPrivKey()}
}

// PrivKeyFromHex parses the 64-byte (seed || pubkey) form printed by `arenad keys`.
func PrivKeyFromHex(s string) (PrivKey, error) {
	b, err := hexToBytes(s)
	if err != nil {
		return PrivKey{}, err
	}
	if len(b) != ed25519.PrivateKeySize {
		return PrivKey{}, fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}
	return PrivKey{key: ed25519.PrivKey(b)}, nil
}

func (k PrivKey) Address() Address {
	var a Address
	copy(a[:], k.key.PubKey().Bytes())
	return a
}

func (k PrivKey) Sign(msg []byte) ([]byte, error) {
	return k.key.Sign(msg)
}

func (k PrivKey) Hex() string {
	return bytesToHex(k.key.Bytes())
}

// Verify checks an ed25519 signature made by the holder of addr.
func Verify(addr Address, msg []byte, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	return ed25519.PubKey(addr[:]).VerifySignature(msg, sig)
}
