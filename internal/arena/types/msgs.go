package types

import (
	"context"

	"pokerarena/internal/arenacrypto"
)

// Msg is implemented by every arena message. GetSigner names the identity
// that must have signed the enclosing transaction.
type Msg interface {
	GetSigner() arenacrypto.Address
}

type MsgServer interface {
	Initialize(context.Context, *MsgInitialize) (*MsgInitializeResponse, error)
	CreateRewardTokenMint(context.Context, *MsgCreateRewardTokenMint) (*MsgCreateRewardTokenMintResponse, error)
	CreateTournament(context.Context, *MsgCreateTournament) (*MsgCreateTournamentResponse, error)
	OpenRegistration(context.Context, *MsgOpenRegistration) (*MsgOpenRegistrationResponse, error)
	RegisterPlayer(context.Context, *MsgRegisterPlayer) (*MsgRegisterPlayerResponse, error)
	StartTournament(context.Context, *MsgStartTournament) (*MsgStartTournamentResponse, error)
	FinalizeTournament(context.Context, *MsgFinalizeTournament) (*MsgFinalizeTournamentResponse, error)
	RecordPlayerResult(context.Context, *MsgRecordPlayerResult) (*MsgRecordPlayerResultResponse, error)
	DistributePoints(context.Context, *MsgDistributePoints) (*MsgDistributePointsResponse, error)
}

type MsgInitialize struct {
	Admin         arenacrypto.Address `json:"admin"`
	Treasury      arenacrypto.Address `json:"treasury"`
	RewardTokenID arenacrypto.Hash    `json:"reward_token_id"`
}

type MsgInitializeResponse struct{}

type MsgCreateRewardTokenMint struct {
	Admin arenacrypto.Address `json:"admin"`
}

type MsgCreateRewardTokenMintResponse struct {
	TokenID   arenacrypto.Hash    `json:"token_id"`
	Authority arenacrypto.Address `json:"authority"`
}

type MsgCreateTournament struct {
	Admin               arenacrypto.Address `json:"admin"`
	MaxPlayers          uint16              `json:"max_players"`
	StartingStack       uint64              `json:"starting_stack"`
	StartsAt            int64               `json:"starts_at"`
	BlindStructureHash  arenacrypto.Hash    `json:"blind_structure_hash"`
	PayoutStructureHash arenacrypto.Hash    `json:"payout_structure_hash"`
}

type MsgCreateTournamentResponse struct {
	TournamentID uint64 `json:"tournament_id"`
}

type MsgOpenRegistration struct {
	Admin        arenacrypto.Address `json:"admin"`
	TournamentID uint64              `json:"tournament_id"`
}

type MsgOpenRegistrationResponse struct{}

type MsgRegisterPlayer struct {
	Player          arenacrypto.Address `json:"player"`
	TournamentID    uint64              `json:"tournament_id"`
	Tier            Tier                `json:"tier"`
	AgentPromptHash arenacrypto.Hash    `json:"agent_prompt_hash"`
	AgentName       string              `json:"agent_name"`
	AgentImageURI   string              `json:"agent_image_uri"`
}

type MsgRegisterPlayerResponse struct {
	Fee               string `json:"fee"`
	RegisteredPlayers uint16 `json:"registered_players"`
}

type MsgStartTournament struct {
	Admin        arenacrypto.Address `json:"admin"`
	TournamentID uint64              `json:"tournament_id"`
}

type MsgStartTournamentResponse struct {
	SeedSlot      uint64           `json:"seed_slot"`
	SeedBlockhash arenacrypto.Hash `json:"seed_blockhash"`
}

type MsgFinalizeTournament struct {
	Admin        arenacrypto.Address `json:"admin"`
	TournamentID uint64              `json:"tournament_id"`
	ResultsHash  arenacrypto.Hash    `json:"results_hash"`
	Winner       arenacrypto.Address `json:"winner"`
}

type MsgFinalizeTournamentResponse struct{}

type MsgRecordPlayerResult struct {
	Admin         arenacrypto.Address `json:"admin"`
	TournamentID  uint64              `json:"tournament_id"`
	Wallet        arenacrypto.Address `json:"wallet"`
	FinalRank     uint16              `json:"final_rank"`
	PointsAwarded uint64              `json:"points_awarded"`
	HandsPlayed   uint32              `json:"hands_played"`
	Eliminations  uint8               `json:"eliminations"`
}

type MsgRecordPlayerResultResponse struct{}

type MsgDistributePoints struct {
	Admin        arenacrypto.Address `json:"admin"`
	TournamentID uint64              `json:"tournament_id"`
	Wallet       arenacrypto.Address `json:"wallet"`
	Holding      TokenHolding        `json:"holding"`
}

type MsgDistributePointsResponse struct {
	Minted uint64 `json:"minted"`
}

func (m *MsgInitialize) GetSigner() arenacrypto.Address            { return m.Admin }
func (m *MsgCreateRewardTokenMint) GetSigner() arenacrypto.Address { return m.Admin }
func (m *MsgCreateTournament) GetSigner() arenacrypto.Address      { return m.Admin }
func (m *MsgOpenRegistration) GetSigner() arenacrypto.Address      { return m.Admin }
func (m *MsgRegisterPlayer) GetSigner() arenacrypto.Address        { return m.Player }
func (m *MsgStartTournament) GetSigner() arenacrypto.Address       { return m.Admin }
func (m *MsgFinalizeTournament) GetSigner() arenacrypto.Address    { return m.Admin }
func (m *MsgRecordPlayerResult) GetSigner() arenacrypto.Address    { return m.Admin }
func (m *MsgDistributePoints) GetSigner() arenacrypto.Address      { return m.Admin }
