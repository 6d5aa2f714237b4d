package types

import (
	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arenacrypto"
)

const (
	ConfigVersion = 1

	// RewardTokenDecimals matches the native denom's base-unit precision.
	RewardTokenDecimals = 9

	MinPlayers = 2

	MaxAgentNameBytes     = 32
	MaxAgentImageURIBytes = 128
)

// Tier is a player's paid service level. It fixes the entry fee.
type Tier string

const (
	TierFree  Tier = "free"
	TierBasic Tier = "basic"
	TierPro   Tier = "pro"
)

func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierBasic, TierPro:
		return true
	}
	return false
}

// Fee returns the entry fee in native base units.
func (t Tier) Fee() (sdkmath.Int, error) {
	switch t {
	case TierFree:
		return sdkmath.ZeroInt(), nil
	case TierBasic:
		return sdkmath.NewInt(100_000_000), nil
	case TierPro:
		return sdkmath.NewInt(1_000_000_000), nil
	}
	return sdkmath.Int{}, ErrInvalidTier.Wrapf("unknown tier %q", string(t))
}

type TournamentStatus string

const (
	StatusCreated      TournamentStatus = "created"
	StatusRegistration TournamentStatus = "registration"
	StatusInProgress   TournamentStatus = "in_progress"
	StatusCompleted    TournamentStatus = "completed"
	// StatusCancelled is reserved. No transition produces or consumes it.
	StatusCancelled TournamentStatus = "cancelled"
)

// Config is the arena singleton. It is created once by Initialize.
type Config struct {
	Admin           arenacrypto.Address `json:"admin"`
	Treasury        arenacrypto.Address `json:"treasury"`
	RewardTokenID   arenacrypto.Hash    `json:"reward_token_id"`
	TournamentCount uint64              `json:"tournament_count"`
	Version         uint8               `json:"version"`
}

type Tournament struct {
	ID                  uint64               `json:"id"`
	Admin               arenacrypto.Address  `json:"admin"`
	Status              TournamentStatus     `json:"status"`
	CreatedAt           int64                `json:"created_at"`
	StartsAt            int64                `json:"starts_at"`
	CompletedAt         *int64               `json:"completed_at,omitempty"`
	MaxPlayers          uint16               `json:"max_players"`
	RegisteredPlayers   uint16               `json:"registered_players"`
	StartingStack       uint64               `json:"starting_stack"`
	BlindStructureHash  arenacrypto.Hash     `json:"blind_structure_hash"`
	PayoutStructureHash arenacrypto.Hash     `json:"payout_structure_hash"`
	ResultsHash         *arenacrypto.Hash    `json:"results_hash,omitempty"`
	Winner              *arenacrypto.Address `json:"winner,omitempty"`
	SeedSlot            uint64               `json:"seed_slot"`
	SeedBlockhash       arenacrypto.Hash     `json:"seed_blockhash"`
}

func (t *Tournament) IsRegistrationOpen() bool {
	return t.Status == StatusRegistration
}

func (t *Tournament) IsFull() bool {
	return t.RegisteredPlayers >= t.MaxPlayers
}

// Registration is keyed by (tournament, wallet). The four result fields are
// unset until RecordPlayerResult, then never change.
type Registration struct {
	TournamentID      uint64              `json:"tournament_id"`
	Wallet            arenacrypto.Address `json:"wallet"`
	Tier              Tier                `json:"tier"`
	RegisteredAt      int64               `json:"registered_at"`
	AgentPromptHash   arenacrypto.Hash    `json:"agent_prompt_hash"`
	AgentName         string              `json:"agent_name"`
	AgentImageURI     string              `json:"agent_image_uri"`
	FinalRank         *uint16             `json:"final_rank,omitempty"`
	PointsAwarded     *uint64             `json:"points_awarded,omitempty"`
	HandsPlayed       *uint32             `json:"hands_played,omitempty"`
	Eliminations      *uint8              `json:"eliminations,omitempty"`
	PointsDistributed bool                `json:"points_distributed"`
}

func (r *Registration) HasResult() bool {
	return r.FinalRank != nil
}

// PlayerStats accumulates a wallet's lifetime results. BestFinish 0 means no
// finish recorded yet.
type PlayerStats struct {
	Wallet            arenacrypto.Address `json:"wallet"`
	TournamentsPlayed uint32              `json:"tournaments_played"`
	TournamentsWon    uint32              `json:"tournaments_won"`
	TotalPoints       uint64              `json:"total_points"`
	BestFinish        uint16              `json:"best_finish"`
	TotalHandsPlayed  uint64              `json:"total_hands_played"`
	TotalEliminations uint32              `json:"total_eliminations"`
	LastTournament    uint64              `json:"last_tournament"`
	LastPlayedAt      int64               `json:"last_played_at"`
}

// MintAuthority is the derived identity allowed to mint the reward token. It
// holds no balance.
type MintAuthority struct {
	Address arenacrypto.Address `json:"address"`
	TokenID arenacrypto.Hash    `json:"token_id"`
	Version uint8               `json:"version"`
}

// TokenHolding names a player's reward-token account.
type TokenHolding struct {
	Token arenacrypto.Hash    `json:"token"`
	Owner arenacrypto.Address `json:"owner"`
}
