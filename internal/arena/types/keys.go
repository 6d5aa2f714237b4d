package types

import (
	"encoding/binary"

	"pokerarena/internal/arenacrypto"
)

const (
	// ModuleName defines the module name.
	ModuleName = "arena"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

var (
	// ConfigKey stores the arena Config singleton.
	ConfigKey = []byte{0x01}

	// TournamentKeyPrefix stores Tournament by id: TournamentKeyPrefix || u64be(id).
	TournamentKeyPrefix = []byte{0x02}

	// RegistrationKeyPrefix stores Registration by (tournament, wallet):
	// RegistrationKeyPrefix || u64be(id) || wallet.
	RegistrationKeyPrefix = []byte{0x03}

	// StatsKeyPrefix stores PlayerStats by wallet: StatsKeyPrefix || wallet.
	StatsKeyPrefix = []byte{0x04}

	// MintAuthorityKey stores the reward-token MintAuthority singleton.
	MintAuthorityKey = []byte{0x05}
)

const (
	MintAuthorityDomain = "arena/v1/points_mint_authority"
	RewardTokenDomain   = "arena/v1/reward_token"
)

func TournamentKey(id uint64) []byte {
	bz := make([]byte, 1+8)
	bz[0] = TournamentKeyPrefix[0]
	binary.BigEndian.PutUint64(bz[1:], id)
	return bz
}

// RegistrationPrefix returns the key prefix shared by every registration of
// one tournament.
func RegistrationPrefix(id uint64) []byte {
	bz := make([]byte, 1+8)
	bz[0] = RegistrationKeyPrefix[0]
	binary.BigEndian.PutUint64(bz[1:], id)
	return bz
}

func RegistrationKey(id uint64, wallet arenacrypto.Address) []byte {
	bz := make([]byte, 0, 1+8+arenacrypto.Size)
	bz = append(bz, RegistrationPrefix(id)...)
	return append(bz, wallet[:]...)
}

func StatsKey(wallet arenacrypto.Address) []byte {
	bz := make([]byte, 0, 1+arenacrypto.Size)
	bz = append(bz, StatsKeyPrefix...)
	return append(bz, wallet[:]...)
}
