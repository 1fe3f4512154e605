package baseapp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/pkg/errors"

	"github.com/gears-network/gears/module"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
)

var _ abci.Application = (*BaseApp)(nil)

// Info returns the app identity and the last committed height and hash. The
// consensus engine uses it to decide whether to replay blocks.
func (app *BaseApp) Info(_ context.Context, req *abci.RequestInfo) (*abci.ResponseInfo, error) {
	app.logger.Debug("info request",
		"version", req.Version, "block-version", req.BlockVersion, "p2p-version", req.P2PVersion)

	return &abci.ResponseInfo{
		Data:             app.name,
		Version:          app.version,
		AppVersion:       1,
		LastBlockHeight:  app.cms.LatestVersion(),
		LastBlockAppHash: app.lastAppHash,
	}, nil
}

// InitChain decodes the genesis state and runs every module's init genesis
// in module order. Height does not advance; the writes stay in the block
// caches until the first commit. A malformed genesis or chain id is fatal.
func (app *BaseApp) InitChain(_ context.Context, req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	app.logger.Info("init chain", "chain-id", req.ChainId, "initial-height", req.InitialHeight)

	if strings.TrimSpace(req.ChainId) == "" {
		return nil, errorsmod.Wrap(sdkerrors.ErrGenesisMalformed, "empty chain id")
	}
	app.chainID = req.ChainId

	ctx := app.internalContext(sdkctx.ExecModeInit)
	app.consensusPs.SetString(ctx, []byte(chainIDParamKey), req.ChainId)
	if req.ConsensusParams != nil && req.ConsensusParams.Block != nil {
		app.storeBlockParams(ctx, req.ConsensusParams.Block.MaxBytes, req.ConsensusParams.Block.MaxGas)
	}

	var appState map[string]json.RawMessage
	if len(req.AppStateBytes) > 0 {
		if err := json.Unmarshal(req.AppStateBytes, &appState); err != nil {
			return nil, errorsmod.Wrapf(sdkerrors.ErrGenesisMalformed, "invalid app state: %v", err)
		}
	}

	if err := app.mm.ValidateGenesis(appState); err != nil {
		return nil, err
	}

	updates, err := app.mm.InitGenesis(ctx, appState)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		updates = req.Validators
	}

	// the check-mode state was copied before genesis ran; rebase it so
	// CheckTx sees the genesis state before the first commit
	app.resetCheckState()

	return &abci.ResponseInitChain{
		ConsensusParams: req.ConsensusParams,
		Validators:      updates,
		AppHash:         app.cms.Head(),
	}, nil
}

func (app *BaseApp) storeBlockParams(ctx sdkctx.Context, maxBytes, maxGas int64) {
	app.consensusPs.SetString(ctx, []byte(blockMaxBytesKey), strconv.FormatInt(maxBytes, 10))
	app.consensusPs.SetString(ctx, []byte(blockMaxGasKey), strconv.FormatInt(maxGas, 10))
}

// CheckTx admits or rejects a tx for the mempool by running the ante checks
// against the check-mode state. Message handlers do not run.
func (app *BaseApp) CheckTx(_ context.Context, req *abci.RequestCheckTx) (*abci.ResponseCheckTx, error) {
	mode := sdkctx.ExecModeCheck
	if req.Type == abci.CheckTxType_Recheck {
		mode = sdkctx.ExecModeReCheck
	}

	app.checkMtx.Lock()
	res := app.runTx(mode, req.Tx)
	app.checkMtx.Unlock()

	if res.err != nil {
		codespace, code, log := sdkerrors.ABCIInfo(res.err, false)
		return &abci.ResponseCheckTx{
			Code:      code,
			Codespace: codespace,
			Log:       log,
			GasWanted: int64(res.gasWanted),
			GasUsed:   int64(res.gasUsed),
		}, nil
	}

	return &abci.ResponseCheckTx{
		Code:      abci.CodeTypeOK,
		GasWanted: int64(res.gasWanted),
		GasUsed:   int64(res.gasUsed),
	}, nil
}

// FinalizeBlock executes one decided block: latch the header, reset the
// block gas meter, run begin-block hooks, deliver every tx in order, run
// end-block hooks and compute the new app hash.
func (app *BaseApp) FinalizeBlock(_ context.Context, req *abci.RequestFinalizeBlock) (*abci.ResponseFinalizeBlock, error) {
	if expected := app.cms.LatestVersion() + 1; req.Height != expected {
		return nil, errors.Errorf("invalid height %d, expected %d", req.Height, expected)
	}

	app.header = &cmtproto.Header{
		ChainID:            app.chainID,
		Height:             req.Height,
		Time:               req.Time,
		ProposerAddress:    req.ProposerAddress,
		NextValidatorsHash: req.NextValidatorsHash,
		AppHash:            app.lastAppHash,
	}
	app.blockGasMeter = app.newBlockGasMeter()

	blockCtx := app.internalContext(sdkctx.ExecModeBlock).WithHeader(app.header)
	if err := app.mm.BeginBlock(blockCtx, module.BeginBlockRequest{
		LastCommit:  req.DecidedLastCommit,
		Misbehavior: req.Misbehavior,
	}); err != nil {
		return nil, errors.Wrap(err, "begin block")
	}

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := app.runTx(sdkctx.ExecModeDeliver, txBytes)
		app.chargeBlockGas(res.gasUsed)
		txResults = append(txResults, execTxResult(res))
	}

	endCtx := app.internalContext(sdkctx.ExecModeBlock).WithHeader(app.header)
	updates, err := app.mm.EndBlock(endCtx)
	if err != nil {
		return nil, errors.Wrap(err, "end block")
	}

	appHash, err := app.cms.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit multi store")
	}
	app.lastAppHash = appHash

	events := append(blockCtx.EventManager().Events(), endCtx.EventManager().Events()...)

	return &abci.ResponseFinalizeBlock{
		Events:           events,
		TxResults:        txResults,
		ValidatorUpdates: updates,
		AppHash:          appHash,
	}, nil
}

func execTxResult(res txResult) *abci.ExecTxResult {
	if res.err != nil {
		codespace, code, log := sdkerrors.ABCIInfo(res.err, false)
		return &abci.ExecTxResult{
			Code:      code,
			Codespace: codespace,
			Log:       log,
			GasWanted: int64(res.gasWanted),
			GasUsed:   int64(res.gasUsed),
		}
	}

	return &abci.ExecTxResult{
		Code:      abci.CodeTypeOK,
		Data:      res.data,
		GasWanted: int64(res.gasWanted),
		GasUsed:   int64(res.gasUsed),
		Events:    res.events,
	}
}

// Commit finalizes the block: the multi-store was flushed when the block was
// finalized, so this advances the mempool baseline and reports the retain
// height.
func (app *BaseApp) Commit(_ context.Context, _ *abci.RequestCommit) (*abci.ResponseCommit, error) {
	app.resetCheckState()

	retainHeight := app.cms.LatestVersion() - 1
	if retainHeight < 0 {
		retainHeight = 0
	}

	return &abci.ResponseCommit{RetainHeight: retainHeight}, nil
}

// Query serves read-only requests. Raw store reads use /store/<name>/key;
// module queries are routed by their registered path. Nonzero heights pin a
// historical version.
func (app *BaseApp) Query(_ context.Context, req *abci.RequestQuery) (*abci.ResponseQuery, error) {
	value, height, err := app.runQuery(req)
	if err != nil {
		codespace, code, log := sdkerrors.ABCIInfo(err, false)
		return &abci.ResponseQuery{
			Code:      code,
			Codespace: codespace,
			Log:       log,
			Key:       req.Data,
		}, nil
	}

	return &abci.ResponseQuery{
		Code:   abci.CodeTypeOK,
		Key:    req.Data,
		Value:  value,
		Height: height,
	}, nil
}

func (app *BaseApp) runQuery(req *abci.RequestQuery) ([]byte, int64, error) {
	height := req.Height
	if height == 0 {
		height = app.cms.LatestVersion()
	}

	if req.Path == "/app/simulate" {
		res := app.runTx(sdkctx.ExecModeSimulate, req.Data)
		if res.err != nil {
			return nil, height, res.err
		}

		out, err := json.Marshal(simulateResponse{GasWanted: res.gasWanted, GasUsed: res.gasUsed})
		if err != nil {
			return nil, height, err
		}
		return out, height, nil
	}

	if height <= 0 {
		return nil, height, errorsmod.Wrapf(sdkerrors.ErrBadRequest, "no committed state at height %d", height)
	}

	qms, err := app.cms.QueryMultiStore(height)
	if err != nil {
		return nil, height, errorsmod.Wrapf(sdkerrors.ErrVersionNotFound, "height %d", height)
	}

	if name, ok := strings.CutPrefix(req.Path, "/store/"); ok {
		name, ok = strings.CutSuffix(name, "/key")
		if !ok {
			return nil, height, errorsmod.Wrapf(sdkerrors.ErrPathNotFound, "%s", req.Path)
		}

		store, ok := qms.KVStoreByName(name)
		if !ok {
			return nil, height, errorsmod.Wrapf(sdkerrors.ErrPathNotFound, "no store named %q", name)
		}
		return store.Get(req.Data), height, nil
	}

	handler, ok := app.queryRouter.handler(req.Path)
	if !ok {
		return nil, height, errorsmod.Wrapf(sdkerrors.ErrPathNotFound, "%s", req.Path)
	}

	qctx := sdkctx.NewQueryContext(qms, app.chainID)
	value, err := handler(qctx, req.Data)
	return value, height, err
}

type simulateResponse struct {
	GasWanted uint64 `json:"gas_wanted"`
	GasUsed   uint64 `json:"gas_used"`
}

// PrepareProposal fills the proposal with mempool txs up to the byte limit,
// in the order received.
func (app *BaseApp) PrepareProposal(_ context.Context, req *abci.RequestPrepareProposal) (*abci.ResponsePrepareProposal, error) {
	var (
		txs        [][]byte
		totalBytes int64
	)

	for _, txBytes := range req.Txs {
		totalBytes += int64(len(txBytes))
		if req.MaxTxBytes > 0 && totalBytes > req.MaxTxBytes {
			break
		}
		txs = append(txs, txBytes)
	}

	return &abci.ResponsePrepareProposal{Txs: txs}, nil
}

// ProcessProposal accepts every well-formed proposal; tx validity is decided
// at delivery.
func (app *BaseApp) ProcessProposal(_ context.Context, _ *abci.RequestProcessProposal) (*abci.ResponseProcessProposal, error) {
	return &abci.ResponseProcessProposal{Status: abci.ResponseProcessProposal_ACCEPT}, nil
}

// ExtendVote: vote extensions are unused.
func (app *BaseApp) ExtendVote(_ context.Context, _ *abci.RequestExtendVote) (*abci.ResponseExtendVote, error) {
	return &abci.ResponseExtendVote{}, nil
}

// VerifyVoteExtension accepts the (always empty) extensions.
func (app *BaseApp) VerifyVoteExtension(_ context.Context, _ *abci.RequestVerifyVoteExtension) (*abci.ResponseVerifyVoteExtension, error) {
	return &abci.ResponseVerifyVoteExtension{Status: abci.ResponseVerifyVoteExtension_ACCEPT}, nil
}

// State-sync snapshots are not supported; the stubs refuse politely.

func (app *BaseApp) ListSnapshots(_ context.Context, _ *abci.RequestListSnapshots) (*abci.ResponseListSnapshots, error) {
	return &abci.ResponseListSnapshots{}, nil
}

func (app *BaseApp) OfferSnapshot(_ context.Context, _ *abci.RequestOfferSnapshot) (*abci.ResponseOfferSnapshot, error) {
	return &abci.ResponseOfferSnapshot{Result: abci.ResponseOfferSnapshot_REJECT}, nil
}

func (app *BaseApp) LoadSnapshotChunk(_ context.Context, _ *abci.RequestLoadSnapshotChunk) (*abci.ResponseLoadSnapshotChunk, error) {
	return &abci.ResponseLoadSnapshotChunk{}, nil
}

func (app *BaseApp) ApplySnapshotChunk(_ context.Context, _ *abci.RequestApplySnapshotChunk) (*abci.ResponseApplySnapshotChunk, error) {
	return &abci.ResponseApplySnapshotChunk{Result: abci.ResponseApplySnapshotChunk_ABORT}, nil
}
