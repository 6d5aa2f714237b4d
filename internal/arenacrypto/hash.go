package arenacrypto

import (
	"crypto/sha256"
)

// HashDomain returns sha256(domain || len32le(p0) || p0 || ...). Each part is
// length-prefixed so that distinct part lists never collide.
func HashDomain(domain string, parts ...[]byte) Hash {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write(u32le(uint32(len(p))))
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveAddress derives a keyless authority address. Nobody holds a private
// key for it; only the ledger acts on its behalf.
func DeriveAddress(domain string, parts ...[]byte) Address {
	return Address(HashDomain(domain, parts...))
}

// Sum256 is a convenience wrapper returning a Hash.
func Sum256(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}
