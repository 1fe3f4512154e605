package baseapp

import (
	"strconv"
	"sync"

	"cosmossdk.io/log"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/pkg/errors"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/module"
	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/multi"
	storetypes "github.com/gears-network/gears/store/types"
	"github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/types/tx"
)

// BaseApp is the deterministic application engine behind the ABCI surface.
// The consensus engine drives it strictly sequentially through the consensus
// connection; only CheckTx (against its own state copy) and queries (against
// pinned historical views) may run alongside.
type BaseApp struct {
	logger  log.Logger
	name    string
	version string

	cms *multi.MultiBank

	// check-mode state: an independent copy of the block view, never merged
	// back into delivery state
	checkMtx   sync.Mutex
	checkState *multi.TransactionMultiBank

	msgRouter   *msgServiceRouter
	queryRouter *queryServiceRouter
	anteHandler tx.AnteHandler
	mm          *module.Manager

	paramsKeeper  params.Keeper
	consensusPs   params.Subspace
	minGasPrices  types.Coins

	// block-scoped latches
	chainID       string
	header        *cmtproto.Header
	blockGasMeter storetypes.GasMeter
	lastAppHash   []byte

	sealed bool
}

// Option tweaks app construction.
type Option func(*BaseApp)

// WithMinGasPrices sets the validator-local fee floor enforced in check
// mode.
func WithMinGasPrices(prices types.Coins) Option {
	return func(app *BaseApp) { app.minGasPrices = prices }
}

// NewBaseApp wires the engine over its backend. The params store key must be
// among keys; the module manager's modules register their messages and
// queries here.
func NewBaseApp(
	logger log.Logger,
	name, version string,
	database db.Database,
	paramsKey storetypes.StoreKey,
	keys []storetypes.StoreKey,
	mm *module.Manager,
	anteHandler tx.AnteHandler,
	opts ...Option,
) (*BaseApp, error) {
	cms, err := multi.NewMultiBank(database, keys...)
	if err != nil {
		return nil, errors.Wrap(err, "opening multi store")
	}

	app := &BaseApp{
		logger:       logger.With("module", "baseapp"),
		name:         name,
		version:      version,
		cms:          cms,
		msgRouter:    newMsgServiceRouter(),
		queryRouter:  newQueryServiceRouter(),
		anteHandler:  anteHandler,
		mm:           mm,
		paramsKeeper: params.NewKeeper(paramsKey),
	}
	app.consensusPs = app.paramsKeeper.Subspace("baseapp")

	for _, opt := range opts {
		opt(app)
	}

	mm.RegisterMsgHandlers(app.msgRouter)
	mm.RegisterQueryHandlers(app.queryRouter)

	app.checkState = cms.ToTxKind()
	app.restoreChainID()
	app.lastAppHash = cms.Head()
	app.sealed = true

	return app, nil
}

// LastBlockHeight is the height of the last committed block.
func (app *BaseApp) LastBlockHeight() int64 {
	return app.cms.LatestVersion()
}

// LastAppHash returns the app hash of the last committed state.
func (app *BaseApp) LastAppHash() []byte {
	return app.lastAppHash
}

// ChainID returns the latched chain id, empty before init chain.
func (app *BaseApp) ChainID() string {
	return app.chainID
}

// internalContext builds a context over the committed state for engine-side
// reads and writes that bypass tx gas.
func (app *BaseApp) internalContext(mode sdkctx.ExecMode) sdkctx.Context {
	return sdkctx.NewContext(app.cms, app.cms.LatestVersion(), app.chainID, mode, app.logger).
		WithHeader(app.header)
}

const (
	chainIDParamKey  = "ChainID"
	blockMaxGasKey   = "BlockMaxGas"
	blockMaxBytesKey = "BlockMaxBytes"
)

func (app *BaseApp) restoreChainID() {
	ctx := app.internalContext(sdkctx.ExecModeBlock)
	if id, ok := app.consensusPs.GetString(ctx, []byte(chainIDParamKey)); ok {
		app.chainID = id
	}
}

// blockMaxGas reads the consensus block gas limit; -1 means unlimited.
func (app *BaseApp) blockMaxGas() int64 {
	ctx := app.internalContext(sdkctx.ExecModeBlock)
	raw, ok := app.consensusPs.GetString(ctx, []byte(blockMaxGasKey))
	if !ok {
		return -1
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		panic(errors.Wrap(err, "corrupt consensus params"))
	}
	return v
}

func (app *BaseApp) newBlockGasMeter() storetypes.GasMeter {
	maxGas := app.blockMaxGas()
	if maxGas < 0 {
		return storetypes.NewInfiniteGasMeter()
	}
	return storetypes.NewGasMeter(storetypes.Gas(maxGas))
}

// resetCheckState rebases the mempool state onto the last committed state.
func (app *BaseApp) resetCheckState() {
	app.checkMtx.Lock()
	defer app.checkMtx.Unlock()
	app.checkState = app.cms.ToTxKind()
}
