package types

const (
	EventTypeArenaInitialized     = "ArenaInitialized"
	EventTypeRewardTokenCreated   = "RewardTokenCreated"
	EventTypeTournamentCreated    = "TournamentCreated"
	EventTypeRegistrationOpened   = "RegistrationOpened"
	EventTypePlayerRegistered     = "PlayerRegistered"
	EventTypeTournamentStarted    = "TournamentStarted"
	EventTypeTournamentFinalized  = "TournamentFinalized"
	EventTypePlayerResultRecorded = "PlayerResultRecorded"
	EventTypePointsDistributed    = "PointsDistributed"
)

const (
	AttributeKeyAdmin        = "admin"
	AttributeKeyTreasury     = "treasury"
	AttributeKeyTokenID      = "tokenId"
	AttributeKeyAuthority    = "authority"
	AttributeKeyTournamentID = "tournamentId"
	AttributeKeyMaxPlayers   = "maxPlayers"
	AttributeKeyStartsAt     = "startsAt"
	AttributeKeyWallet       = "wallet"
	AttributeKeyTier         = "tier"
	AttributeKeyFee          = "fee"
	AttributeKeyRegistered   = "registeredPlayers"
	AttributeKeySeedSlot     = "seedSlot"
	AttributeKeySeedHash     = "seedBlockhash"
	AttributeKeyResultsHash  = "resultsHash"
	AttributeKeyWinner       = "winner"
	AttributeKeyRank         = "finalRank"
	AttributeKeyPoints       = "points"
	AttributeKeyMinted       = "minted"
)
