package gearsd_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/testutil"
	sdk "github.com/gears-network/gears/types"
	authtypes "github.com/gears-network/gears/x/auth/types"
	banktypes "github.com/gears-network/gears/x/bank/types"
)

var (
	feeOne   = sdk.NewCoins(sdk.NewInt64Coin("uatom", 1))
	gasLimit = uint64(200_000)
)

func fundedApp(t *testing.T, amount int64, opts ...testutil.Option) (*testutil.TestApp, *testutil.TestAccount) {
	t.Helper()

	sender := testutil.NewTestAccount()
	app := testutil.SetupApp(t, []banktypes.Balance{
		{Address: sender.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", amount))},
	}, opts...)

	return app, sender
}

func TestSendSuccess(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	sendTx := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)),
	})

	hashBefore := app.LastAppHash()
	res := app.NextBlock(t, sendTx)

	require.Len(t, res.TxResults, 1)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	// 34 - 10 sent - 1 fee
	balance := app.QueryBalance(t, sender.Address, "uatom", 0)
	require.Equal(t, "23", balance.Amount.String())

	received := app.QueryBalance(t, recipient.Address, "uatom", 0)
	require.Equal(t, "10", received.Amount.String())

	// the ante's fee deduction emits the first transfer event (payer to fee
	// collector); the send's transfer event is the last event of the tx
	events := res.TxResults[0].Events
	require.NotEmpty(t, events, "transfer event missing")
	transfer := events[len(events)-1]
	require.Equal(t, banktypes.EventTypeTransfer, transfer.Type, "transfer event missing")
	require.Equal(t, recipient.Address.String(), testutil.Attribute(transfer, banktypes.AttributeKeyRecipient))
	require.Equal(t, sender.Address.String(), testutil.Attribute(transfer, banktypes.AttributeKeySender))
	require.Equal(t, "10uatom", testutil.Attribute(transfer, banktypes.AttributeKeyAmount))

	require.NotEqual(t, hashBefore, app.LastAppHash(), "app hash must change")
}

func TestSendInsufficientFunds(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	sendTx := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 100)),
	})

	res := app.NextBlock(t, sendTx)

	require.Len(t, res.TxResults, 1)
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, banktypes.Codespace, res.TxResults[0].Codespace)

	// the fee is kept, nothing else moved
	balance := app.QueryBalance(t, sender.Address, "uatom", 0)
	require.Equal(t, "33", balance.Amount.String())
	require.True(t, app.QueryBalance(t, recipient.Address, "uatom", 0).Amount.IsZero())

	_, found := testutil.FindEvent(res.TxResults[0].Events, banktypes.EventTypeTransfer)
	require.False(t, found, "failed tx must not emit transfer")
}

func TestOutOfBlockGas(t *testing.T) {
	// the block budget fits one declared tx but not two: whatever the first
	// tx actually consumes (1000 for its signature check, plus size and
	// store charges) leaves
	// less than a full gas limit behind
	app, sender := fundedApp(t, 1_000, testutil.WithBlockMaxGas(int64(gasLimit)+1_000))
	recipient := testutil.NewTestAccount()

	tx1 := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	})
	tx2 := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 2)),
	})

	res := app.NextBlock(t, tx1, tx2)
	require.Len(t, res.TxResults, 2)

	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	require.NotEqual(t, uint32(0), res.TxResults[1].Code)
	require.Equal(t, "gas", res.TxResults[1].Codespace)
	require.Contains(t, res.TxResults[1].Log, "block gas")

	// the second tx's messages did not run and its fee was not charged
	require.Equal(t, "1", app.QueryBalance(t, recipient.Address, "uatom", 0).Amount.String())
}

func TestHistoricalQuery(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	// height 1: no txs
	app.NextBlock(t)

	// height 2: the transfer
	sendTx := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)),
	})
	res := app.NextBlock(t, sendTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	require.Equal(t, "34", app.QueryBalance(t, sender.Address, "uatom", 1).Amount.String())
	require.Equal(t, "23", app.QueryBalance(t, sender.Address, "uatom", 2).Amount.String())
	require.Equal(t, "23", app.QueryBalance(t, sender.Address, "uatom", 0).Amount.String())

	// unknown heights are typed store errors
	errRes := app.Query(t, "/bank/balance", map[string]string{
		"address": sender.Address.String(), "denom": "uatom",
	}, 99)
	require.NotEqual(t, uint32(0), errRes.Code)
	require.Equal(t, "store", errRes.Codespace)
}

func TestGenesisRoundTrip(t *testing.T) {
	app, sender := fundedApp(t, 34)

	// one committed block so export walks committed state
	app.NextBlock(t)

	state, err := app.ExportAppState()
	require.NoError(t, err)

	var appState map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(state, &appState))

	var bankGenesis banktypes.GenesisState
	require.NoError(t, json.Unmarshal(appState[banktypes.ModuleName], &bankGenesis))
	require.Len(t, bankGenesis.Balances, 1)
	require.Equal(t, sender.Address.String(), bankGenesis.Balances[0].Address.String())
	require.Equal(t, "34uatom", bankGenesis.Balances[0].Coins.String())
	require.Equal(t, "34uatom", bankGenesis.Supply.String())

	var authGenesis authtypes.GenesisState
	require.NoError(t, json.Unmarshal(appState[authtypes.ModuleName], &authGenesis))
	require.Len(t, authGenesis.Accounts, 1)
}

func TestAnteTimeoutRejection(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	// advance well past height 1
	for i := 0; i < 9; i++ {
		app.NextBlock(t)
	}
	require.Equal(t, int64(9), app.LastBlockHeight())

	timedOut := app.SignTxOpts(t, sender, feeOne, gasLimit, 1, "", banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	})

	// check path: rejected for the mempool
	checkRes := app.CheckTxBytes(t, timedOut)
	require.NotEqual(t, uint32(0), checkRes.Code)
	require.Equal(t, "ante", checkRes.Codespace)

	// deliver path: rejected with no state effects, fee included
	res := app.NextBlock(t, timedOut)
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, "ante", res.TxResults[0].Codespace)

	require.Equal(t, "34", app.QueryBalance(t, sender.Address, "uatom", 0).Amount.String())
}

func TestSequenceMismatchRejected(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	msg := banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	}

	good := app.SignTx(t, sender, feeOne, gasLimit, msg)
	res := app.NextBlock(t, good)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	// replaying the same tx fails the sequence check
	res = app.NextBlock(t, good)
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, "ante", res.TxResults[0].Codespace)
	require.Contains(t, res.TxResults[0].Log, "sequence")
}

func TestMemoTooLongRejected(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	longMemo := make([]byte, 300)
	for i := range longMemo {
		longMemo[i] = 'm'
	}

	badTx := app.SignTxOpts(t, sender, feeOne, gasLimit, 0, string(longMemo), banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	})

	res := app.NextBlock(t, badTx)
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, "ante", res.TxResults[0].Codespace)
	require.Contains(t, res.TxResults[0].Log, "memo")
}

func TestUnknownAccountRejected(t *testing.T) {
	app, _ := fundedApp(t, 34)

	stranger := testutil.NewTestAccount()
	recipient := testutil.NewTestAccount()

	orphanTx := app.SignTx(t, stranger, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: stranger.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	})

	res := app.NextBlock(t, orphanTx)
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, "ante", res.TxResults[0].Codespace)
	require.Contains(t, res.TxResults[0].Log, "account")
}

func TestDecodeFailureRejected(t *testing.T) {
	app, _ := fundedApp(t, 34)

	res := app.NextBlock(t, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NotEqual(t, uint32(0), res.TxResults[0].Code)
	require.Equal(t, "tx", res.TxResults[0].Codespace)
}

func TestEmptyBlocksKeepHashStable(t *testing.T) {
	app, _ := fundedApp(t, 34)

	res1 := app.NextBlock(t)
	res2 := app.NextBlock(t)
	require.Equal(t, res1.AppHash, res2.AppHash)

	require.Equal(t, int64(2), app.LastBlockHeight())
}

func TestInfoAfterCommit(t *testing.T) {
	app, _ := fundedApp(t, 34)
	app.NextBlock(t)

	res := app.InfoQuery(t)
	require.Equal(t, int64(1), res.LastBlockHeight)
	require.Equal(t, app.LastAppHash(), res.LastBlockAppHash)
	require.Equal(t, "gearsd", res.Data)
}

func TestUnknownQueryPath(t *testing.T) {
	app, _ := fundedApp(t, 34)
	app.NextBlock(t)

	res := app.Query(t, "/no/such/path", nil, 0)
	require.NotEqual(t, uint32(0), res.Code)
	require.Equal(t, "query", res.Codespace)
}

func TestRawStoreQuery(t *testing.T) {
	app, sender := fundedApp(t, 34)
	app.NextBlock(t)

	res, err := app.RawQuery("/store/bank/key", banktypes.BalanceKey(sender.Address, "uatom"), 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), res.Code)
	require.Equal(t, []byte("34"), res.Value)
}

func TestSimulateQuery(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()
	app.NextBlock(t)

	simTx := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)),
	})
	sender.Sequence-- // simulation must not consume the sequence

	res, err := app.RawQuery("/app/simulate", simTx, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), res.Code, res.Log)

	var out struct {
		GasWanted uint64 `json:"gas_wanted"`
		GasUsed   uint64 `json:"gas_used"`
	}
	require.NoError(t, json.Unmarshal(res.Value, &out))
	require.Equal(t, gasLimit, out.GasWanted)
	require.Greater(t, out.GasUsed, uint64(0))

	// simulation left no trace
	require.Equal(t, "34", app.QueryBalance(t, sender.Address, "uatom", 0).Amount.String())
}

func TestCheckTxAdmitsAndDelivers(t *testing.T) {
	app, sender := fundedApp(t, 34)
	recipient := testutil.NewTestAccount()

	sendTx := app.SignTx(t, sender, feeOne, gasLimit, banktypes.MsgSend{
		FromAddress: sender.Address,
		ToAddress:   recipient.Address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)),
	})

	checkRes := app.CheckTxBytes(t, sendTx)
	require.Equal(t, uint32(0), checkRes.Code, checkRes.Log)
	require.Equal(t, int64(gasLimit), checkRes.GasWanted)

	// check-mode writes never leak into delivery state
	res := app.NextBlock(t, sendTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)
	require.Equal(t, "23", app.QueryBalance(t, sender.Address, "uatom", 0).Amount.String())
}

func TestDeterministicAppHashAcrossInstances(t *testing.T) {
	sender := testutil.NewTestAccount()
	balances := []banktypes.Balance{
		{Address: sender.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 34))},
	}

	run := func() []byte {
		app := testutil.SetupApp(t, balances)
		res := app.NextBlock(t)
		return res.AppHash
	}

	require.Equal(t, run(), run())
}
