package types

import errorsmod "cosmossdk.io/errors"

// x/arena sentinel errors. Codes are grouped by category: authorization 1xxx,
// tournament lifecycle 2xxx, agent 3xxx, payment 4xxx, integrity 5xxx.
var (
	ErrInvalidRequest = errorsmod.Register(ModuleName, 1, "invalid request")

	ErrUnauthorized        = errorsmod.Register(ModuleName, 1001, "only admin can perform this action")
	ErrInvalidSignature    = errorsmod.Register(ModuleName, 1002, "invalid signature provided")
	ErrNotInitialized      = errorsmod.Register(ModuleName, 1003, "arena is not initialized")
	ErrAlreadyInitialized  = errorsmod.Register(ModuleName, 1004, "arena is already initialized")
	ErrMintAuthorityExists = errorsmod.Register(ModuleName, 1005, "reward token mint authority already exists")

	ErrTournamentNotFound       = errorsmod.Register(ModuleName, 2001, "tournament not found")
	ErrTournamentFull           = errorsmod.Register(ModuleName, 2002, "tournament is full")
	ErrRegistrationNotOpen      = errorsmod.Register(ModuleName, 2003, "tournament registration is not open")
	ErrAlreadyRegistered        = errorsmod.Register(ModuleName, 2004, "already registered for this tournament")
	ErrNotEnoughPlayers         = errorsmod.Register(ModuleName, 2005, "not enough players to start")
	ErrTournamentAlreadyStarted = errorsmod.Register(ModuleName, 2006, "tournament has already started")
	ErrTournamentNotInProgress  = errorsmod.Register(ModuleName, 2007, "tournament not in progress")
	ErrTournamentNotCompleted   = errorsmod.Register(ModuleName, 2008, "tournament not completed")
	ErrPointsAlreadyDistributed = errorsmod.Register(ModuleName, 2009, "points already distributed to player")
	ErrNoPointsToDistribute     = errorsmod.Register(ModuleName, 2010, "player has no points to distribute")
	ErrRegistrationNotFound     = errorsmod.Register(ModuleName, 2011, "registration not found")
	ErrResultAlreadyRecorded    = errorsmod.Register(ModuleName, 2012, "result already recorded for player")
	ErrInvalidRank              = errorsmod.Register(ModuleName, 2013, "invalid final rank")
	ErrInvalidTournamentConfig  = errorsmod.Register(ModuleName, 2014, "invalid tournament configuration")
	ErrStatsNotFound            = errorsmod.Register(ModuleName, 2015, "player stats not found")

	ErrInvalidTier          = errorsmod.Register(ModuleName, 3001, "invalid agent tier")
	ErrInvalidAgentMetadata = errorsmod.Register(ModuleName, 3002, "invalid agent metadata")

	ErrInsufficientBalance = errorsmod.Register(ModuleName, 4001, "insufficient balance for registration")
	ErrMintFailed          = errorsmod.Register(ModuleName, 4003, "reward token mint failed")

	ErrInvalidResultsHash       = errorsmod.Register(ModuleName, 5001, "invalid results hash")
	ErrInvalidPayoutStructure   = errorsmod.Register(ModuleName, 5002, "invalid payout structure")
	ErrInvalidBlindStructure    = errorsmod.Register(ModuleName, 5003, "invalid blind structure")
	ErrRewardTokenNotConfigured = errorsmod.Register(ModuleName, 5004, "reward token not configured")
	ErrRewardTokenMismatch      = errorsmod.Register(ModuleName, 5005, "token holding is not for the reward token")
	ErrInvalidWinner            = errorsmod.Register(ModuleName, 5006, "invalid winner")
)
