package app

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"

	"pokerarena/internal/arena/keeper"
	arenatypes "pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/bank"
	"pokerarena/internal/codec"
	"pokerarena/internal/state"
)

const (
	AppName           = "arenad"
	AppVersion uint64 = 1

	AuthStoreKey = "auth"
)

var (
	metaHeightKey  = append(append([]byte{}, state.MetaPrefix...), "height"...)
	metaAppHashKey = append(append([]byte{}, state.MetaPrefix...), "app_hash"...)
	metaChainIDKey = append(append([]byte{}, state.MetaPrefix...), "chain_id"...)
)

// EventSink receives the events of every committed block.
type EventSink interface {
	Enqueue(height int64, events []state.Event)
}

type Option func(*ArenaApp)

func WithEventSink(s EventSink) Option {
	return func(a *ArenaApp) { a.sink = s }
}

// ArenaApp is the ABCI application. Transactions in a block run one at a time;
// each executes on its own branch of the block's pending state and is written
// back only when it succeeds.
type ArenaApp struct {
	*abci.BaseApplication

	mu     sync.RWMutex
	db     dbm.DB
	root   corestore.KVStore
	logger log.Logger
	sink   EventSink

	chainID  string
	height   int64
	lastHash []byte

	// Pending block state between FinalizeBlock and Commit.
	block         *state.Branch
	pendingHeight int64
	pendingHash   []byte
	pendingEvents []state.Event

	authStore   corestore.KVStoreService
	bankKeeper  bank.Keeper
	arenaKeeper keeper.Keeper
	msgServer   arenatypes.MsgServer
}

func New(db dbm.DB, logger log.Logger, opts ...Option) (*ArenaApp, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	bk := bank.NewKeeper(state.NewKVStoreService(bank.StoreKey), logger)
	ak := keeper.NewKeeper(
		state.NewKVStoreService(arenatypes.StoreKey),
		bk,
		bk,
		state.BlockRandomness{},
		logger,
	)

	a := &ArenaApp{
		BaseApplication: abci.NewBaseApplication(),
		db:              db,
		root:            state.NewDBStore(db),
		logger:          logger,
		authStore:       state.NewKVStoreService(AuthStoreKey),
		bankKeeper:      bk,
		arenaKeeper:     ak,
		msgServer:       keeper.NewMsgServerImpl(ak),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.loadMeta(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *ArenaApp) loadMeta() error {
	bz, err := a.root.Get(metaHeightKey)
	if err != nil {
		return fmt.Errorf("load height: %w", err)
	}
	if len(bz) == 8 {
		a.height = int64(binary.BigEndian.Uint64(bz))
	}
	if a.lastHash, err = a.root.Get(metaAppHashKey); err != nil {
		return fmt.Errorf("load app hash: %w", err)
	}
	chainID, err := a.root.Get(metaChainIDKey)
	if err != nil {
		return fmt.Errorf("load chain id: %w", err)
	}
	a.chainID = string(chainID)
	return nil
}

func (a *ArenaApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return &abci.InfoResponse{
		Data:             AppName,
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *ArenaApp) InitChain(ctx context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	gs := DefaultGenesis()
	if len(req.AppStateBytes) > 0 {
		if err := json.Unmarshal(req.AppStateBytes, &gs); err != nil {
			return nil, fmt.Errorf("decode app state: %w", err)
		}
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}

	a.chainID = req.ChainId
	a.block = state.NewBranch(a.root)
	gctx, _ := state.NewContext(ctx, a.block, state.BlockInfo{ChainID: req.ChainId, Height: req.InitialHeight, Time: req.Time})
	if err := a.bankKeeper.InitGenesis(gctx, gs.Bank); err != nil {
		return nil, err
	}
	if err := a.block.Set(metaChainIDKey, []byte(req.ChainId)); err != nil {
		return nil, err
	}

	hash, err := state.AppHash(a.block)
	if err != nil {
		return nil, err
	}
	a.logger.Info("chain initialized", "chain_id", req.ChainId, "accounts", len(gs.Bank.Balances))
	return &abci.InitChainResponse{AppHash: hash}, nil
}

func (a *ArenaApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		err = ErrTxDecode.Wrap(err.Error())
	} else {
		err = verifyEnvelope(env)
	}
	if err != nil {
		codespace, code, logMsg := errorsmod.ABCIInfo(wrapPlumbing(err), false)
		return &abci.CheckTxResponse{Code: code, Codespace: codespace, Log: logMsg}, nil
	}
	// Nonce and state checks run in FinalizeBlock.
	return &abci.CheckTxResponse{Code: abci.CodeTypeOK}, nil
}

func (a *ArenaApp) FinalizeBlock(ctx context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		a.block = state.NewBranch(a.root)
	}
	info := state.BlockInfo{
		ChainID: a.chainID,
		Height:  req.Height,
		Time:    req.Time,
		Hash:    req.Hash,
	}

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res, events := a.deliverTx(ctx, info, txBytes)
		txResults = append(txResults, res)
		a.pendingEvents = append(a.pendingEvents, events...)
	}

	hash, err := state.AppHash(a.block)
	if err != nil {
		return nil, fmt.Errorf("app hash: %w", err)
	}
	heightBz := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBz, uint64(req.Height))
	if err := a.block.Set(metaHeightKey, heightBz); err != nil {
		return nil, err
	}
	if err := a.block.Set(metaAppHashKey, hash); err != nil {
		return nil, err
	}
	a.pendingHeight = req.Height
	a.pendingHash = hash

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   hash,
	}, nil
}

func (a *ArenaApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		return &abci.CommitResponse{}, nil
	}
	changes := a.block.Len()
	if err := state.Commit(a.db, a.block); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		return nil, err
	}
	a.block = nil
	a.height = a.pendingHeight
	a.lastHash = a.pendingHash

	events := a.pendingEvents
	a.pendingEvents = nil
	if a.sink != nil && len(events) > 0 {
		a.sink.Enqueue(a.height, events)
	}

	a.logger.Info("committed block", "height", a.height, "changes", changes, "events", len(events), "app_hash", fmt.Sprintf("%X", a.lastHash))
	return &abci.CommitResponse{}, nil
}

// LastBlockHeight returns the height of the last committed block.
func (a *ArenaApp) LastBlockHeight() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.height
}

func (a *ArenaApp) deliverTx(parent context.Context, info state.BlockInfo, txBytes []byte) (*abci.ExecTxResult, []state.Event) {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return errResult(ErrTxDecode.Wrap(err.Error())), nil
	}

	txStore := state.NewBranch(a.block)
	ctx, em := state.NewContext(parent, txStore, info)

	resp, err := a.route(ctx, env)
	if err != nil {
		a.logger.Debug("tx rejected", "type", env.Type, "signer", env.Signer, "err", err)
		return errResult(err), nil
	}
	if err := txStore.Write(); err != nil {
		return errResult(err), nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		data = nil
	}
	events := em.Events()
	return &abci.ExecTxResult{
		Code:   abci.CodeTypeOK,
		Data:   data,
		Events: toABCIEvents(events),
	}, events
}

func (a *ArenaApp) route(ctx context.Context, env codec.TxEnvelope) (any, error) {
	switch env.Type {
	case codec.TypeInitialize:
		return handle(ctx, a, env, a.msgServer.Initialize)
	case codec.TypeCreateRewardTokenMint:
		return handle(ctx, a, env, a.msgServer.CreateRewardTokenMint)
	case codec.TypeCreateTournament:
		return handle(ctx, a, env, a.msgServer.CreateTournament)
	case codec.TypeOpenRegistration:
		return handle(ctx, a, env, a.msgServer.OpenRegistration)
	case codec.TypeRegisterPlayer:
		return handle(ctx, a, env, a.msgServer.RegisterPlayer)
	case codec.TypeStartTournament:
		return handle(ctx, a, env, a.msgServer.StartTournament)
	case codec.TypeFinalizeTournament:
		return handle(ctx, a, env, a.msgServer.FinalizeTournament)
	case codec.TypeRecordPlayerResult:
		return handle(ctx, a, env, a.msgServer.RecordPlayerResult)
	case codec.TypeDistributePoints:
		return handle(ctx, a, env, a.msgServer.DistributePoints)
	case codec.TypeBankSend:
		return handle(ctx, a, env, a.bankSend)
	default:
		return nil, ErrUnknownRequest.Wrapf("unknown tx type: %s", env.Type)
	}
}

type signedMsg interface {
	GetSigner() arenacrypto.Address
}

// handle decodes the envelope value into M, authenticates the envelope against
// the message's signer and runs fn.
func handle[M any, PM interface {
	*M
	signedMsg
}, R any](ctx context.Context, a *ArenaApp, env codec.TxEnvelope, fn func(context.Context, PM) (R, error)) (R, error) {
	var zero R
	msg := PM(new(M))
	if err := json.Unmarshal(env.Value, msg); err != nil {
		return zero, ErrTxDecode.Wrapf("%s: %v", env.Type, err)
	}
	if err := a.authenticate(ctx, env, msg.GetSigner()); err != nil {
		return zero, err
	}
	return fn(ctx, msg)
}

func (a *ArenaApp) bankSend(ctx context.Context, msg *codec.BankSendTx) (*struct{}, error) {
	if err := a.bankKeeper.SendCoins(ctx, msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func errResult(err error) *abci.ExecTxResult {
	codespace, code, logMsg := errorsmod.ABCIInfo(wrapPlumbing(err), false)
	return &abci.ExecTxResult{Code: code, Codespace: codespace, Log: logMsg}
}

type abciCoder interface {
	ABCICode() uint32
}

// wrapPlumbing keeps the message of unregistered errors, which ABCIInfo would
// otherwise replace with "internal".
func wrapPlumbing(err error) error {
	var c abciCoder
	if errors.As(err, &c) {
		return err
	}
	return ErrTxFailed.Wrap(err.Error())
}

func toABCIEvents(events []state.Event) []abci.Event {
	out := make([]abci.Event, 0, len(events))
	for _, e := range events {
		ev := abci.Event{Type: e.Type}
		for _, attr := range e.Attributes {
			ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: attr.Key, Value: attr.Value, Index: true})
		}
		out = append(out, ev)
	}
	return out
}
