package context

import (
	"time"

	"cosmossdk.io/log"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"github.com/gears-network/gears/store/gaskv"
	storetypes "github.com/gears-network/gears/store/types"
	"github.com/gears-network/gears/types"
)

// ExecMode distinguishes the phases a mutable context can serve.
type ExecMode uint8

const (
	ExecModeCheck ExecMode = iota
	ExecModeReCheck
	ExecModeSimulate
	ExecModeDeliver
	ExecModeInit
	ExecModeBlock
)

// MultiStore is the mutable multi-store view a context carries.
type MultiStore interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
	KVStoreMut(key storetypes.StoreKey) storetypes.KVStoreMut
}

// ReadContext is the read-only capability shared by mutable contexts and
// query contexts. Keeper getters accept this.
type ReadContext interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
	Height() int64
	ChainID() string
}

// Context bundles everything one ABCI phase may touch. It is a value: With*
// methods return copies and nothing in it outlives the phase. Store access
// is gas-metered through the context's meter.
type Context struct {
	ms            MultiStore
	height        int64
	chainID       string
	header        *cmtproto.Header
	mode          ExecMode
	gasMeter      storetypes.GasMeter
	blockGasMeter storetypes.GasMeter
	kvGasConfig   storetypes.GasConfig
	em            *types.EventManager
	logger        log.Logger
	txBytes       []byte
	minGasPrices  types.Coins
	priority      int64
}

func NewContext(ms MultiStore, height int64, chainID string, mode ExecMode, logger log.Logger) Context {
	return Context{
		ms:            ms,
		height:        height,
		chainID:       chainID,
		mode:          mode,
		gasMeter:      storetypes.NewInfiniteGasMeter(),
		blockGasMeter: storetypes.NewInfiniteGasMeter(),
		kvGasConfig:   storetypes.KVGasConfig(),
		em:            types.NewEventManager(),
		logger:        logger,
	}
}

func (c Context) Height() int64   { return c.height }
func (c Context) ChainID() string { return c.chainID }
func (c Context) ExecMode() ExecMode {
	return c.mode
}

func (c Context) IsCheckTx() bool   { return c.mode == ExecModeCheck }
func (c Context) IsReCheckTx() bool { return c.mode == ExecModeReCheck }
func (c Context) IsSimulate() bool  { return c.mode == ExecModeSimulate }
func (c Context) IsDeliverTx() bool { return c.mode == ExecModeDeliver }

// BlockHeader returns the latched header; nil during init genesis.
func (c Context) BlockHeader() *cmtproto.Header { return c.header }

// BlockTime is the only clock execution may observe.
func (c Context) BlockTime() time.Time {
	if c.header == nil {
		return time.Time{}
	}
	return c.header.Time
}

func (c Context) GasMeter() storetypes.GasMeter      { return c.gasMeter }
func (c Context) BlockGasMeter() storetypes.GasMeter { return c.blockGasMeter }
func (c Context) EventManager() *types.EventManager  { return c.em }
func (c Context) Logger() log.Logger                 { return c.logger }
func (c Context) TxBytes() []byte                    { return c.txBytes }
func (c Context) MinGasPrices() types.Coins          { return c.minGasPrices }
func (c Context) Priority() int64                    { return c.priority }

// MultiStoreMut exposes the raw multi-store for engine internals that bypass
// gas metering (genesis import/export).
func (c Context) MultiStoreMut() MultiStore { return c.ms }

// KVStore returns the gas-metered read-only store for key.
func (c Context) KVStore(key storetypes.StoreKey) storetypes.KVStore {
	return gaskv.NewStore(c.ms.KVStore(key), c.gasMeter, c.kvGasConfig)
}

// KVStoreMut returns the gas-metered mutable store for key.
func (c Context) KVStoreMut(key storetypes.StoreKey) storetypes.KVStoreMut {
	return gaskv.NewStoreMut(c.ms.KVStoreMut(key), c.gasMeter, c.kvGasConfig)
}

func (c Context) WithHeader(header *cmtproto.Header) Context {
	c.header = header
	return c
}

func (c Context) WithGasMeter(meter storetypes.GasMeter) Context {
	c.gasMeter = meter
	return c
}

func (c Context) WithBlockGasMeter(meter storetypes.GasMeter) Context {
	c.blockGasMeter = meter
	return c
}

func (c Context) WithKVGasConfig(config storetypes.GasConfig) Context {
	c.kvGasConfig = config
	return c
}

func (c Context) WithEventManager(em *types.EventManager) Context {
	c.em = em
	return c
}

func (c Context) WithTxBytes(txBytes []byte) Context {
	c.txBytes = txBytes
	return c
}

func (c Context) WithMinGasPrices(prices types.Coins) Context {
	c.minGasPrices = prices
	return c
}

func (c Context) WithPriority(priority int64) Context {
	c.priority = priority
	return c
}

func (c Context) WithLogger(logger log.Logger) Context {
	c.logger = logger
	return c
}

func (c Context) WithExecMode(mode ExecMode) Context {
	c.mode = mode
	return c
}
