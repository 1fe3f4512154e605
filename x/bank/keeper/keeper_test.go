package keeper_test

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/multi"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	authkeeper "github.com/gears-network/gears/x/auth/keeper"
	authtypes "github.com/gears-network/gears/x/auth/types"
	"github.com/gears-network/gears/x/bank/keeper"
	"github.com/gears-network/gears/x/bank/types"
)

type fixture struct {
	ctx sdkctx.Context
	ak  authkeeper.Keeper
	bk  keeper.Keeper
}

func setup(t *testing.T) fixture {
	t.Helper()

	keys := storetypes.NewKVStoreKeys("params", authtypes.StoreKey, types.StoreKey)

	allKeys := []storetypes.StoreKey{keys["params"], keys[authtypes.StoreKey], keys[types.StoreKey]}
	ms, err := multi.NewMultiBank(db.NewMemDB(), allKeys...)
	require.NoError(t, err)

	pk := params.NewKeeper(keys["params"])
	ak := authkeeper.NewKeeper(keys[authtypes.StoreKey], pk)
	bk := keeper.NewKeeper(keys[types.StoreKey], pk, ak)

	ctx := sdkctx.NewContext(ms, 1, "test-chain", sdkctx.ExecModeDeliver, log.NewNopLogger())
	return fixture{ctx: ctx, ak: ak, bk: bk}
}

func addr(b byte) sdk.AccAddress {
	out := make(sdk.AccAddress, 20)
	out[0] = b
	return out
}

func TestSendCoins(t *testing.T) {
	f := setup(t)
	alice, bob := addr(1), addr(2)

	f.bk.InitGenesis(f.ctx, types.GenesisState{
		Params:   types.DefaultParams(),
		Balances: []types.Balance{{Address: alice, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 34))}},
	})

	require.NoError(t, f.bk.SendCoins(f.ctx, alice, bob, sdk.NewCoins(sdk.NewInt64Coin("uatom", 10))))

	require.Equal(t, "24", f.bk.GetBalance(f.ctx, alice, "uatom").Amount.String())
	require.Equal(t, "10", f.bk.GetBalance(f.ctx, bob, "uatom").Amount.String())

	// the recipient account was created on first receipt
	require.True(t, f.ak.HasAccount(f.ctx, bob))

	// transfer event carries (recipient, sender, amount)
	events := f.ctx.EventManager().Events()
	var found bool
	for _, e := range events {
		if e.Type == types.EventTypeTransfer {
			found = true
		}
	}
	require.True(t, found)
}

func TestSendInsufficientFundsFailsBeforeAnyCredit(t *testing.T) {
	f := setup(t)
	alice, bob := addr(1), addr(2)

	f.bk.InitGenesis(f.ctx, types.GenesisState{
		Params:   types.DefaultParams(),
		Balances: []types.Balance{{Address: alice, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 5))}},
	})

	err := f.bk.SendCoins(f.ctx, alice, bob, sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.Equal(t, "5", f.bk.GetBalance(f.ctx, alice, "uatom").Amount.String())
	require.True(t, f.bk.GetBalance(f.ctx, bob, "uatom").Amount.IsZero())
}

func TestSupplyTracksBalances(t *testing.T) {
	f := setup(t)
	alice := addr(1)

	f.bk.InitGenesis(f.ctx, types.GenesisState{
		Params: types.DefaultParams(),
		Balances: []types.Balance{
			{Address: alice, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 7), sdk.NewInt64Coin("stake", 3))},
			{Address: addr(2), Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 5))},
		},
	})

	require.Equal(t, "3stake,12uatom", f.bk.GetTotalSupply(f.ctx).String())

	// transfers conserve supply
	require.NoError(t, f.bk.SendCoins(f.ctx, alice, addr(3), sdk.NewCoins(sdk.NewInt64Coin("uatom", 7))))
	require.Equal(t, "3stake,12uatom", f.bk.GetTotalSupply(f.ctx).String())
}

func TestMintAndBurn(t *testing.T) {
	f := setup(t)

	f.bk.InitGenesis(f.ctx, types.DefaultGenesisState())

	f.bk.MintCoins(f.ctx, "gov", sdk.NewCoins(sdk.NewInt64Coin("uatom", 100)))
	require.Equal(t, "100", f.bk.GetSupply(f.ctx, "uatom").Amount.String())

	require.NoError(t, f.bk.BurnCoins(f.ctx, "gov", sdk.NewCoins(sdk.NewInt64Coin("uatom", 40))))
	require.Equal(t, "60", f.bk.GetSupply(f.ctx, "uatom").Amount.String())

	govAddr := f.ak.GetModuleAddress("gov")
	require.Equal(t, "60", f.bk.GetBalance(f.ctx, govAddr, "uatom").Amount.String())
}

func TestModuleAccountsAreBlockedRecipients(t *testing.T) {
	f := setup(t)
	alice := addr(1)

	f.bk.InitGenesis(f.ctx, types.GenesisState{
		Params:   types.DefaultParams(),
		Balances: []types.Balance{{Address: alice, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 10))}},
	})

	// materialize the fee collector module account
	require.NoError(t, f.bk.SendCoinsFromAccountToModule(f.ctx, alice, authtypes.FeeCollectorName, sdk.NewCoins(sdk.NewInt64Coin("uatom", 1))))

	feeCollector := f.ak.GetModuleAddress(authtypes.FeeCollectorName)
	require.True(t, f.bk.BlockedAddr(f.ctx, feeCollector))
	require.False(t, f.bk.BlockedAddr(f.ctx, alice))

	_, err := f.bk.HandleMsgSend(f.ctx, types.MsgSend{
		FromAddress: alice,
		ToAddress:   feeCollector,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)),
	})
	require.ErrorIs(t, err, types.ErrBlockedRecipient)
}

func TestExportGenesisRoundTrip(t *testing.T) {
	f := setup(t)
	alice := addr(1)

	genesis := types.GenesisState{
		Params:   types.DefaultParams(),
		Balances: []types.Balance{{Address: alice, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 34))}},
		DenomMetadata: []types.Metadata{
			{Base: "uatom", Display: "atom", Name: "Cosmos Hub Atom", Symbol: "ATOM"},
		},
	}

	f.bk.InitGenesis(f.ctx, genesis)
	exported := f.bk.ExportGenesis(f.ctx)

	require.Equal(t, genesis.Params, exported.Params)
	require.Len(t, exported.Balances, 1)
	require.Equal(t, genesis.Balances[0].Coins, exported.Balances[0].Coins)
	require.Equal(t, "34uatom", exported.Supply.String())
	require.Equal(t, genesis.DenomMetadata, exported.DenomMetadata)
}
