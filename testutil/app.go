package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/gearsd"
	sdk "github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/tx"
	banktypes "github.com/gears-network/gears/x/bank/types"
)

// ChainID is the fixture chain id.
const ChainID = "test-chain"

// TestAccount is a funded key pair with its tracked account number and
// sequence.
type TestAccount struct {
	Priv          secp256k1.PrivKey
	Address       sdk.AccAddress
	AccountNumber uint64
	Sequence      uint64
}

func NewTestAccount() *TestAccount {
	priv := secp256k1.GenPrivKey()
	return &TestAccount{
		Priv:    priv,
		Address: sdk.AccAddress(priv.PubKey().Address()),
	}
}

func (a *TestAccount) PubKey() *tx.PubKey {
	return tx.NewSecp256k1PubKey(a.Priv.PubKey().Bytes())
}

// TestApp drives a full application over an in-memory backend through the
// raw ABCI surface, the way the consensus engine would.
type TestApp struct {
	*gearsd.GearsApp

	lastTime time.Time
}

// Option tweaks chain initialization.
type Option func(*initConfig)

type initConfig struct {
	blockMaxGas int64
	appState    map[string]json.RawMessage
}

// WithBlockMaxGas sets the consensus block gas limit (-1 = unlimited).
func WithBlockMaxGas(maxGas int64) Option {
	return func(cfg *initConfig) { cfg.blockMaxGas = maxGas }
}

// WithModuleGenesis overrides one module's genesis document.
func WithModuleGenesis(name string, genesis any) Option {
	return func(cfg *initConfig) {
		bz, err := json.Marshal(genesis)
		if err != nil {
			panic(err)
		}
		cfg.appState[name] = bz
	}
}

// SetupApp boots an app and runs init chain. Accounts funded via balances
// are created in order, so the i-th balance's account number is i.
func SetupApp(t *testing.T, balances []banktypes.Balance, opts ...Option) *TestApp {
	t.Helper()

	app, err := gearsd.NewGearsApp(log.NewNopLogger(), db.NewMemDB())
	require.NoError(t, err)

	ta := &TestApp{GearsApp: app, lastTime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}

	bankGenesis := banktypes.DefaultGenesisState()
	bankGenesis.Balances = balances

	cfg := initConfig{
		blockMaxGas: -1,
		appState:    app.DefaultGenesis(),
	}

	bz, err := json.Marshal(bankGenesis)
	require.NoError(t, err)
	cfg.appState[banktypes.ModuleName] = bz

	for _, opt := range opts {
		opt(&cfg)
	}

	appState, err := json.Marshal(cfg.appState)
	require.NoError(t, err)

	_, err = app.InitChain(context.Background(), &abci.RequestInitChain{
		ChainId:       ChainID,
		AppStateBytes: appState,
		ConsensusParams: &cmtproto.ConsensusParams{
			Block: &cmtproto.BlockParams{MaxBytes: 1 << 22, MaxGas: cfg.blockMaxGas},
		},
	})
	require.NoError(t, err)

	return ta
}

// NextBlock finalizes and commits one block carrying the given txs.
func (ta *TestApp) NextBlock(t *testing.T, txs ...[]byte) *abci.ResponseFinalizeBlock {
	t.Helper()

	ta.lastTime = ta.lastTime.Add(5 * time.Second)

	res, err := ta.FinalizeBlock(context.Background(), &abci.RequestFinalizeBlock{
		Height: ta.LastBlockHeight() + 1,
		Time:   ta.lastTime,
		Txs:    txs,
	})
	require.NoError(t, err)

	_, err = ta.Commit(context.Background(), &abci.RequestCommit{})
	require.NoError(t, err)

	return res
}

// NextBlockAt advances the chain to a specific block time, used to mature
// time queues.
func (ta *TestApp) NextBlockAt(t *testing.T, at time.Time, txs ...[]byte) *abci.ResponseFinalizeBlock {
	t.Helper()

	require.True(t, at.After(ta.lastTime), "block time must advance")
	ta.lastTime = at.Add(-5 * time.Second)
	return ta.NextBlock(t, txs...)
}

// SignTx builds and signs a tx from the account, bumping its tracked
// sequence.
func (ta *TestApp) SignTx(t *testing.T, acc *TestAccount, fee sdk.Coins, gasLimit uint64, msgs ...tx.Msg) []byte {
	return ta.SignTxOpts(t, acc, fee, gasLimit, 0, "", msgs...)
}

// SignTxOpts is SignTx with timeout height and memo.
func (ta *TestApp) SignTxOpts(t *testing.T, acc *TestAccount, fee sdk.Coins, gasLimit uint64, timeoutHeight uint64, memo string, msgs ...tx.Msg) []byte {
	t.Helper()

	builder := tx.NewBuilder().
		SetMsgs(msgs...).
		SetMemo(memo).
		SetTimeoutHeight(timeoutHeight).
		SetFee(fee, gasLimit).
		AddSignerInfo(acc.PubKey(), acc.Sequence)

	signDoc, err := builder.SignDocBytes(ChainID, acc.AccountNumber)
	require.NoError(t, err)

	sig, err := acc.Priv.Sign(signDoc)
	require.NoError(t, err)

	raw, err := builder.AddSignature(sig).BuildRaw()
	require.NoError(t, err)

	acc.Sequence++
	return raw
}

// Query runs an ABCI query.
func (ta *TestApp) Query(t *testing.T, path string, req any, height int64) *abci.ResponseQuery {
	t.Helper()

	var data []byte
	if req != nil {
		var err error
		data, err = json.Marshal(req)
		require.NoError(t, err)
	}

	res, err := ta.GearsApp.Query(context.Background(), &abci.RequestQuery{
		Path:   path,
		Data:   data,
		Height: height,
	})
	require.NoError(t, err)
	return res
}

// QueryBalance reads one balance at a height (0 = latest).
func (ta *TestApp) QueryBalance(t *testing.T, addr sdk.AccAddress, denom string, height int64) sdk.Coin {
	t.Helper()

	res := ta.Query(t, "/bank/balance", map[string]string{"address": addr.String(), "denom": denom}, height)
	require.Equal(t, uint32(0), res.Code, "balance query failed: %s", res.Log)

	var out struct {
		Balance sdk.Coin `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(res.Value, &out))
	return out.Balance
}

// RawQuery runs an ABCI query with raw request bytes.
func (ta *TestApp) RawQuery(path string, data []byte, height int64) (*abci.ResponseQuery, error) {
	return ta.GearsApp.Query(context.Background(), &abci.RequestQuery{
		Path:   path,
		Data:   data,
		Height: height,
	})
}

// CheckTxBytes runs the mempool admission path.
func (ta *TestApp) CheckTxBytes(t *testing.T, txBytes []byte) *abci.ResponseCheckTx {
	t.Helper()

	res, err := ta.CheckTx(context.Background(), &abci.RequestCheckTx{
		Tx:   txBytes,
		Type: abci.CheckTxType_New,
	})
	require.NoError(t, err)
	return res
}

// InfoQuery runs the ABCI info request.
func (ta *TestApp) InfoQuery(t *testing.T) *abci.ResponseInfo {
	t.Helper()

	res, err := ta.Info(context.Background(), &abci.RequestInfo{})
	require.NoError(t, err)
	return res
}

// FindEvent returns the first event of the given type.
func FindEvent(events []abci.Event, eventType string) (abci.Event, bool) {
	for _, e := range events {
		if e.Type == eventType {
			return e, true
		}
	}
	return abci.Event{}, false
}

// Attribute reads one attribute value off an event.
func Attribute(e abci.Event, key string) string {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
