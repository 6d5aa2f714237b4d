package arenacrypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Size is the width of every identity and digest on the ledger.
const Size = 32

// Address is a 32-byte identity: the raw ed25519 public key of a wallet, or a
// derived (keyless) authority.
type Address [Size]byte

// Hash is a 32-byte digest of an off-ledger document or a seed commitment.
type Hash [Size]byte

func hexToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("hex: empty string")
	}
	ss := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(ss)%2 != 0 {
		return nil, fmt.Errorf("hex: odd length")
	}
	b, err := hex.DecodeString(ss)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return b, nil
}

func bytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func parse32(s string) ([Size]byte, error) {
	var out [Size]byte
	b, err := hexToBytes(s)
	if err != nil {
		return out, err
	}
	if len(b) != Size {
		return out, fmt.Errorf("hex: want %d bytes, got %d", Size, len(b))
	}
	copy(out[:], b)
	return out, nil
}

func ParseAddress(s string) (Address, error) {
	b, err := parse32(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return Address(b), nil
}

func ParseHash(s string) (Hash, error) {
	b, err := parse32(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Hash(b), nil
}

// AddressFromBytes copies a 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", Size, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string { return bytesToHex(a[:]) }
func (a Address) Bytes() []byte  { return append([]byte(nil), a[:]...) }
func (a Address) IsZero() bool   { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (h Hash) String() string { return bytesToHex(h[:]) }
func (h Hash) Bytes() []byte  { return append([]byte(nil), h[:]...) }
func (h Hash) IsZero() bool   { return h == Hash{} }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(text []byte) error {
	v, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
