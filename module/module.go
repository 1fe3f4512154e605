package module

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// AppModule is the contract every x/ module satisfies: a name, genesis
// import/export and validation. Message handling, queries and block hooks
// are optional capabilities declared by the Has* interfaces.
type AppModule interface {
	Name() string

	DefaultGenesis() json.RawMessage
	ValidateGenesis(bz json.RawMessage) error
	InitGenesis(ctx sdkctx.Context, bz json.RawMessage) []abci.ValidatorUpdate
	ExportGenesis(ctx sdkctx.Context) json.RawMessage
}

// MsgHandler executes one message, returning opaque response data.
type MsgHandler func(ctx sdkctx.Context, msg tx.Msg) ([]byte, error)

// MsgRouter is implemented by the baseapp; modules register their messages
// against it at app construction.
type MsgRouter interface {
	RegisterHandler(typeURL string, decoder tx.MsgDecoder, handler MsgHandler)
}

// QueryHandler serves one query path against a pinned read-only view.
type QueryHandler func(ctx sdkctx.QueryContext, req []byte) ([]byte, error)

// QueryRouter is implemented by the baseapp.
type QueryRouter interface {
	RegisterQuery(path string, handler QueryHandler)
}

// HasMsgHandlers is satisfied by modules that accept transactions.
type HasMsgHandlers interface {
	RegisterMsgHandlers(router MsgRouter)
}

// HasQueryHandlers is satisfied by modules that serve queries.
type HasQueryHandlers interface {
	RegisterQueryHandlers(router QueryRouter)
}

// BeginBlockRequest carries the consensus inputs to begin-block hooks.
type BeginBlockRequest struct {
	LastCommit  abci.CommitInfo
	Misbehavior []abci.Misbehavior
}

// HasBeginBlocker is satisfied by modules with begin-block work.
type HasBeginBlocker interface {
	BeginBlock(ctx sdkctx.Context, req BeginBlockRequest) error
}

// HasEndBlocker is satisfied by modules with end-block work. At most one
// module in an app may return validator updates.
type HasEndBlocker interface {
	EndBlock(ctx sdkctx.Context) ([]abci.ValidatorUpdate, error)
}

// Manager drives the module set in a fixed order: the order modules were
// passed in is the order used for genesis, begin-block and end-block.
type Manager struct {
	modules []AppModule
}

func NewManager(modules ...AppModule) *Manager {
	seen := map[string]bool{}
	for _, m := range modules {
		if seen[m.Name()] {
			panic("duplicate module name " + m.Name())
		}
		seen[m.Name()] = true
	}

	return &Manager{modules: modules}
}

func (m *Manager) Modules() []AppModule {
	return m.modules
}

func (m *Manager) RegisterMsgHandlers(router MsgRouter) {
	for _, mod := range m.modules {
		if h, ok := mod.(HasMsgHandlers); ok {
			h.RegisterMsgHandlers(router)
		}
	}
}

func (m *Manager) RegisterQueryHandlers(router QueryRouter) {
	for _, mod := range m.modules {
		if h, ok := mod.(HasQueryHandlers); ok {
			h.RegisterQueryHandlers(router)
		}
	}
}

// DefaultGenesis assembles the default app state, one entry per module.
func (m *Manager) DefaultGenesis() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(m.modules))
	for _, mod := range m.modules {
		out[mod.Name()] = mod.DefaultGenesis()
	}
	return out
}

func (m *Manager) ValidateGenesis(appState map[string]json.RawMessage) error {
	for _, mod := range m.modules {
		bz, ok := appState[mod.Name()]
		if !ok {
			continue
		}
		if err := mod.ValidateGenesis(bz); err != nil {
			return errorsmod.Wrapf(errors.ErrGenesisMalformed, "module %s: %v", mod.Name(), err)
		}
	}
	return nil
}

// InitGenesis runs each module's genesis in manager order. At most one
// module may return the initial validator set; a second one is an error.
func (m *Manager) InitGenesis(ctx sdkctx.Context, appState map[string]json.RawMessage) ([]abci.ValidatorUpdate, error) {
	var updates []abci.ValidatorUpdate

	for _, mod := range m.modules {
		bz, ok := appState[mod.Name()]
		if !ok {
			bz = mod.DefaultGenesis()
		}

		modUpdates := mod.InitGenesis(ctx, bz)
		if len(modUpdates) > 0 {
			if len(updates) > 0 {
				return nil, errorsmod.Wrap(errors.ErrGenesisMalformed, "validator updates returned by more than one module")
			}
			updates = modUpdates
		}
	}

	return updates, nil
}

func (m *Manager) ExportGenesis(ctx sdkctx.Context) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(m.modules))
	for _, mod := range m.modules {
		out[mod.Name()] = mod.ExportGenesis(ctx)
	}
	return out
}

func (m *Manager) BeginBlock(ctx sdkctx.Context, req BeginBlockRequest) error {
	for _, mod := range m.modules {
		if h, ok := mod.(HasBeginBlocker); ok {
			if err := h.BeginBlock(ctx, req); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Manager) EndBlock(ctx sdkctx.Context) ([]abci.ValidatorUpdate, error) {
	var updates []abci.ValidatorUpdate

	for _, mod := range m.modules {
		h, ok := mod.(HasEndBlocker)
		if !ok {
			continue
		}

		modUpdates, err := h.EndBlock(ctx)
		if err != nil {
			return nil, err
		}

		if len(modUpdates) > 0 {
			if len(updates) > 0 {
				return nil, errorsmod.Wrap(errors.ErrTxValidation, "validator updates returned by more than one module")
			}
			updates = modUpdates
		}
	}

	return updates, nil
}
