package keeper

import (
	"context"
	"fmt"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/state"
)

type msgServer struct {
	Keeper
}

var _ types.MsgServer = msgServer{}

func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

func emit(ctx context.Context, typ string, attrs ...state.Attribute) {
	state.EventManagerFromContext(ctx).EmitEvent(state.NewEvent(typ, attrs...))
}

func u64(v uint64) string { return fmt.Sprintf("%d", v) }

func (m msgServer) Initialize(ctx context.Context, req *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if req.Admin.IsZero() {
		return nil, types.ErrInvalidRequest.Wrap("missing admin")
	}
	if req.Treasury.IsZero() {
		return nil, types.ErrInvalidRequest.Wrap("missing treasury")
	}

	existing, err := m.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.ErrAlreadyInitialized
	}

	cfg := &types.Config{
		Admin:           req.Admin,
		Treasury:        req.Treasury,
		RewardTokenID:   req.RewardTokenID,
		TournamentCount: 0,
		Version:         types.ConfigVersion,
	}
	if err := m.SetConfig(ctx, cfg); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeArenaInitialized,
		state.NewAttribute(types.AttributeKeyAdmin, cfg.Admin.String()),
		state.NewAttribute(types.AttributeKeyTreasury, cfg.Treasury.String()),
		state.NewAttribute(types.AttributeKeyTokenID, cfg.RewardTokenID.String()),
	)
	m.Logger().Info("arena initialized", "admin", cfg.Admin.String(), "treasury", cfg.Treasury.String())
	return &types.MsgInitializeResponse{}, nil
}

func (m msgServer) CreateRewardTokenMint(ctx context.Context, req *types.MsgCreateRewardTokenMint) (*types.MsgCreateRewardTokenMintResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	cfg, err := m.requireAdmin(ctx, req.Admin)
	if err != nil {
		return nil, err
	}

	existing, err := m.GetMintAuthority(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.ErrMintAuthorityExists.Wrapf("authority %s", existing.Address)
	}

	authority := arenacrypto.DeriveAddress(types.MintAuthorityDomain)
	token := arenacrypto.HashDomain(types.RewardTokenDomain, authority[:])

	exists, err := m.tokenMinter.HasToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.ErrMintAuthorityExists.Wrapf("token %s", token)
	}
	if err := m.tokenMinter.CreateToken(ctx, token, authority, types.RewardTokenDecimals); err != nil {
		return nil, err
	}

	if err := m.SetMintAuthority(ctx, &types.MintAuthority{
		Address: authority,
		TokenID: token,
		Version: types.ConfigVersion,
	}); err != nil {
		return nil, err
	}
	cfg.RewardTokenID = token
	if err := m.SetConfig(ctx, cfg); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeRewardTokenCreated,
		state.NewAttribute(types.AttributeKeyTokenID, token.String()),
		state.NewAttribute(types.AttributeKeyAuthority, authority.String()),
	)
	return &types.MsgCreateRewardTokenMintResponse{TokenID: token, Authority: authority}, nil
}

func (m msgServer) CreateTournament(ctx context.Context, req *types.MsgCreateTournament) (*types.MsgCreateTournamentResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	cfg, err := m.requireAdmin(ctx, req.Admin)
	if err != nil {
		return nil, err
	}

	if req.MaxPlayers < types.MinPlayers {
		return nil, types.ErrInvalidTournamentConfig.Wrapf("max_players must be at least %d", types.MinPlayers)
	}
	if req.BlindStructureHash.IsZero() {
		return nil, types.ErrInvalidBlindStructure.Wrap("blind structure hash is zero")
	}
	if req.PayoutStructureHash.IsZero() {
		return nil, types.ErrInvalidPayoutStructure.Wrap("payout structure hash is zero")
	}

	id, err := addUint64Checked(cfg.TournamentCount, 1, "tournament_count")
	if err != nil {
		return nil, types.ErrInvalidTournamentConfig.Wrap(err.Error())
	}
	cfg.TournamentCount = id
	if err := m.SetConfig(ctx, cfg); err != nil {
		return nil, err
	}

	t := &types.Tournament{
		ID:                  id,
		Admin:               req.Admin,
		Status:              types.StatusCreated,
		CreatedAt:           state.BlockTime(ctx),
		StartsAt:            req.StartsAt,
		MaxPlayers:          req.MaxPlayers,
		RegisteredPlayers:   0,
		StartingStack:       req.StartingStack,
		BlindStructureHash:  req.BlindStructureHash,
		PayoutStructureHash: req.PayoutStructureHash,
	}
	if err := m.SetTournament(ctx, t); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeTournamentCreated,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(id)),
		state.NewAttribute(types.AttributeKeyMaxPlayers, u64(uint64(req.MaxPlayers))),
		state.NewAttribute(types.AttributeKeyStartsAt, fmt.Sprintf("%d", req.StartsAt)),
	)
	return &types.MsgCreateTournamentResponse{TournamentID: id}, nil
}

func (m msgServer) OpenRegistration(ctx context.Context, req *types.MsgOpenRegistration) (*types.MsgOpenRegistrationResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if _, err := m.requireAdmin(ctx, req.Admin); err != nil {
		return nil, err
	}
	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusCreated {
		return nil, types.ErrTournamentAlreadyStarted.Wrapf("tournament %d is %s", t.ID, t.Status)
	}

	t.Status = types.StatusRegistration
	if err := m.SetTournament(ctx, t); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeRegistrationOpened,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
	)
	return &types.MsgOpenRegistrationResponse{}, nil
}

func validateAgentMetadata(name, imageURI string) error {
	if len(name) > types.MaxAgentNameBytes {
		return types.ErrInvalidAgentMetadata.Wrapf("agent_name exceeds %d bytes", types.MaxAgentNameBytes)
	}
	if !utf8.ValidString(name) {
		return types.ErrInvalidAgentMetadata.Wrap("agent_name is not valid UTF-8")
	}
	if len(imageURI) > types.MaxAgentImageURIBytes {
		return types.ErrInvalidAgentMetadata.Wrapf("agent_image_uri exceeds %d bytes", types.MaxAgentImageURIBytes)
	}
	return nil
}

func (m msgServer) RegisterPlayer(ctx context.Context, req *types.MsgRegisterPlayer) (*types.MsgRegisterPlayerResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if req.Player.IsZero() {
		return nil, types.ErrInvalidRequest.Wrap("missing player")
	}
	cfg, err := m.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, types.ErrNotInitialized
	}

	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if !t.IsRegistrationOpen() {
		return nil, types.ErrRegistrationNotOpen.Wrapf("tournament %d is %s", t.ID, t.Status)
	}
	if t.IsFull() {
		return nil, types.ErrTournamentFull.Wrapf("%d/%d players", t.RegisteredPlayers, t.MaxPlayers)
	}

	existing, err := m.GetRegistration(ctx, t.ID, req.Player)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.ErrAlreadyRegistered
	}

	if !req.Tier.Valid() {
		return nil, types.ErrInvalidTier.Wrapf("unknown tier %q", string(req.Tier))
	}
	if err := validateAgentMetadata(req.AgentName, req.AgentImageURI); err != nil {
		return nil, err
	}

	fee, err := req.Tier.Fee()
	if err != nil {
		return nil, err
	}
	if fee.IsPositive() {
		if err := m.bankKeeper.SendCoins(ctx, req.Player, cfg.Treasury, fee); err != nil {
			return nil, errorsmod.Wrapf(types.ErrInsufficientBalance, "fee %s: %v", fee, err)
		}
	}

	r := &types.Registration{
		TournamentID:    t.ID,
		Wallet:          req.Player,
		Tier:            req.Tier,
		RegisteredAt:    state.BlockTime(ctx),
		AgentPromptHash: req.AgentPromptHash,
		AgentName:       req.AgentName,
		AgentImageURI:   req.AgentImageURI,
	}
	if err := m.SetRegistration(ctx, r); err != nil {
		return nil, err
	}

	t.RegisteredPlayers++
	if err := m.SetTournament(ctx, t); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypePlayerRegistered,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
		state.NewAttribute(types.AttributeKeyWallet, req.Player.String()),
		state.NewAttribute(types.AttributeKeyTier, string(req.Tier)),
		state.NewAttribute(types.AttributeKeyFee, fee.String()),
		state.NewAttribute(types.AttributeKeyRegistered, u64(uint64(t.RegisteredPlayers))),
	)
	return &types.MsgRegisterPlayerResponse{Fee: fee.String(), RegisteredPlayers: t.RegisteredPlayers}, nil
}

func (m msgServer) StartTournament(ctx context.Context, req *types.MsgStartTournament) (*types.MsgStartTournamentResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if _, err := m.requireAdmin(ctx, req.Admin); err != nil {
		return nil, err
	}
	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusRegistration {
		return nil, types.ErrRegistrationNotOpen.Wrapf("tournament %d is %s", t.ID, t.Status)
	}
	if t.RegisteredPlayers < types.MinPlayers {
		return nil, types.ErrNotEnoughPlayers.Wrapf("%d registered, need %d", t.RegisteredPlayers, types.MinPlayers)
	}

	slot, seed, err := m.randomness.RecentBlockHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("read seed commitment: %w", err)
	}

	t.SeedSlot = slot
	t.SeedBlockhash = seed
	t.Status = types.StatusInProgress
	if err := m.SetTournament(ctx, t); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeTournamentStarted,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
		state.NewAttribute(types.AttributeKeySeedSlot, u64(slot)),
		state.NewAttribute(types.AttributeKeySeedHash, seed.String()),
		state.NewAttribute(types.AttributeKeyRegistered, u64(uint64(t.RegisteredPlayers))),
	)
	return &types.MsgStartTournamentResponse{SeedSlot: slot, SeedBlockhash: seed}, nil
}

func (m msgServer) FinalizeTournament(ctx context.Context, req *types.MsgFinalizeTournament) (*types.MsgFinalizeTournamentResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if _, err := m.requireAdmin(ctx, req.Admin); err != nil {
		return nil, err
	}
	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusInProgress {
		return nil, types.ErrTournamentNotInProgress.Wrapf("tournament %d is %s", t.ID, t.Status)
	}
	if req.ResultsHash.IsZero() {
		return nil, types.ErrInvalidResultsHash.Wrap("results hash is zero")
	}
	if req.Winner.IsZero() {
		return nil, types.ErrInvalidWinner.Wrap("winner is zero")
	}

	now := state.BlockTime(ctx)
	resultsHash := req.ResultsHash
	winner := req.Winner
	t.ResultsHash = &resultsHash
	t.Winner = &winner
	t.CompletedAt = &now
	t.Status = types.StatusCompleted
	if err := m.SetTournament(ctx, t); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypeTournamentFinalized,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
		state.NewAttribute(types.AttributeKeyResultsHash, resultsHash.String()),
		state.NewAttribute(types.AttributeKeyWinner, winner.String()),
	)
	m.Logger().Info("tournament finalized", "tournament", t.ID, "winner", winner.String())
	return &types.MsgFinalizeTournamentResponse{}, nil
}

func (m msgServer) RecordPlayerResult(ctx context.Context, req *types.MsgRecordPlayerResult) (*types.MsgRecordPlayerResultResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if _, err := m.requireAdmin(ctx, req.Admin); err != nil {
		return nil, err
	}
	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusCompleted {
		return nil, types.ErrTournamentNotCompleted.Wrapf("tournament %d is %s", t.ID, t.Status)
	}
	r, err := m.mustRegistration(ctx, t.ID, req.Wallet)
	if err != nil {
		return nil, err
	}
	if req.FinalRank == 0 || req.FinalRank > t.RegisteredPlayers {
		return nil, types.ErrInvalidRank.Wrapf("rank %d outside 1..%d", req.FinalRank, t.RegisteredPlayers)
	}
	if r.HasResult() {
		return nil, types.ErrResultAlreadyRecorded.Wrapf("wallet %s finished %d", r.Wallet, *r.FinalRank)
	}

	rank, points, hands, elims := req.FinalRank, req.PointsAwarded, req.HandsPlayed, req.Eliminations
	r.FinalRank = &rank
	r.PointsAwarded = &points
	r.HandsPlayed = &hands
	r.Eliminations = &elims
	if err := m.SetRegistration(ctx, r); err != nil {
		return nil, err
	}

	if err := m.applyResultToStats(ctx, t.ID, r.Wallet, rank, points, hands, elims); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypePlayerResultRecorded,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
		state.NewAttribute(types.AttributeKeyWallet, r.Wallet.String()),
		state.NewAttribute(types.AttributeKeyRank, u64(uint64(rank))),
		state.NewAttribute(types.AttributeKeyPoints, u64(points)),
	)
	return &types.MsgRecordPlayerResultResponse{}, nil
}

// applyResultToStats folds one tournament result into the wallet's lifetime
// stats, creating them on first use. Every counter saturates.
func (k Keeper) applyResultToStats(ctx context.Context, tournamentID uint64, wallet arenacrypto.Address, rank uint16, points uint64, hands uint32, elims uint8) error {
	s, err := k.GetPlayerStats(ctx, wallet)
	if err != nil {
		return err
	}
	if s == nil {
		s = &types.PlayerStats{Wallet: wallet}
	}

	s.TournamentsPlayed = saturatingAdd(s.TournamentsPlayed, 1)
	if rank == 1 {
		s.TournamentsWon = saturatingAdd(s.TournamentsWon, 1)
	}
	s.TotalPoints = saturatingAdd(s.TotalPoints, points)
	if s.BestFinish == 0 || rank < s.BestFinish {
		s.BestFinish = rank
	}
	s.TotalHandsPlayed = saturatingAdd(s.TotalHandsPlayed, uint64(hands))
	s.TotalEliminations = saturatingAdd(s.TotalEliminations, uint32(elims))
	s.LastTournament = tournamentID
	s.LastPlayedAt = state.BlockTime(ctx)

	return k.SetPlayerStats(ctx, s)
}

func (m msgServer) DistributePoints(ctx context.Context, req *types.MsgDistributePoints) (*types.MsgDistributePointsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	cfg, err := m.requireAdmin(ctx, req.Admin)
	if err != nil {
		return nil, err
	}
	t, err := m.mustTournament(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusCompleted {
		return nil, types.ErrTournamentNotCompleted.Wrapf("tournament %d is %s", t.ID, t.Status)
	}
	r, err := m.mustRegistration(ctx, t.ID, req.Wallet)
	if err != nil {
		return nil, err
	}
	if r.PointsAwarded == nil {
		return nil, types.ErrNoPointsToDistribute.Wrapf("no result recorded for %s", r.Wallet)
	}
	if r.PointsDistributed {
		return nil, types.ErrPointsAlreadyDistributed
	}

	authority, err := m.GetMintAuthority(ctx)
	if err != nil {
		return nil, err
	}
	if authority == nil || cfg.RewardTokenID.IsZero() {
		return nil, types.ErrRewardTokenNotConfigured
	}
	if req.Holding.Token != cfg.RewardTokenID {
		return nil, types.ErrRewardTokenMismatch.Wrapf("holding token %s, reward token %s", req.Holding.Token, cfg.RewardTokenID)
	}
	if req.Holding.Owner != r.Wallet {
		return nil, types.ErrUnauthorized.Wrapf("holding owner %s is not %s", req.Holding.Owner, r.Wallet)
	}

	amount := *r.PointsAwarded
	if amount > 0 {
		err := m.tokenMinter.Mint(ctx, authority.Address, cfg.RewardTokenID, req.Holding.Owner, sdkmath.NewIntFromUint64(amount))
		if err != nil {
			return nil, errorsmod.Wrapf(types.ErrMintFailed, "%v", err)
		}
	}

	r.PointsDistributed = true
	if err := m.SetRegistration(ctx, r); err != nil {
		return nil, err
	}

	emit(ctx, types.EventTypePointsDistributed,
		state.NewAttribute(types.AttributeKeyTournamentID, u64(t.ID)),
		state.NewAttribute(types.AttributeKeyWallet, r.Wallet.String()),
		state.NewAttribute(types.AttributeKeyMinted, u64(amount)),
	)
	return &types.MsgDistributePointsResponse{Minted: amount}, nil
}
