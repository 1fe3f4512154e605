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
	"github.com/gears-network/gears/x/auth/keeper"
	"github.com/gears-network/gears/x/auth/types"
)

func setup(t *testing.T) (sdkctx.Context, keeper.Keeper) {
	t.Helper()

	keys := storetypes.NewKVStoreKeys("params", types.StoreKey)
	ms, err := multi.NewMultiBank(db.NewMemDB(), keys["params"], keys[types.StoreKey])
	require.NoError(t, err)

	k := keeper.NewKeeper(keys[types.StoreKey], params.NewKeeper(keys["params"]))
	ctx := sdkctx.NewContext(ms, 1, "test-chain", sdkctx.ExecModeDeliver, log.NewNopLogger())
	return ctx, k
}

func addr(b byte) sdk.AccAddress {
	out := make(sdk.AccAddress, 20)
	out[0] = b
	return out
}

func TestAccountNumbersAreMonotonic(t *testing.T) {
	ctx, k := setup(t)

	a := k.NewAccountWithAddress(ctx, addr(1))
	b := k.NewAccountWithAddress(ctx, addr(2))
	c := k.NewAccountWithAddress(ctx, addr(3))

	require.Equal(t, uint64(0), a.AccountNumber)
	require.Equal(t, uint64(1), b.AccountNumber)
	require.Equal(t, uint64(2), c.AccountNumber)
}

func TestGetSetAccount(t *testing.T) {
	ctx, k := setup(t)

	require.Nil(t, k.GetAccount(ctx, addr(1)))
	require.False(t, k.HasAccount(ctx, addr(1)))

	acc := k.NewAccountWithAddress(ctx, addr(1))
	acc.IncrementSequence()
	k.SetAccount(ctx, acc)

	got := k.GetAccount(ctx, addr(1))
	require.NotNil(t, got)
	require.Equal(t, uint64(1), got.GetSequence())
	require.Equal(t, addr(1), got.GetAddress())
}

func TestModuleAccounts(t *testing.T) {
	ctx, k := setup(t)

	mod := k.EnsureModuleAccount(ctx, types.FeeCollectorName)
	require.Equal(t, types.FeeCollectorName, mod.Name)
	require.Equal(t, k.GetModuleAddress(types.FeeCollectorName), mod.GetAddress())

	// idempotent
	again := k.EnsureModuleAccount(ctx, types.FeeCollectorName)
	require.Equal(t, mod.AccountNumber, again.AccountNumber)

	require.True(t, k.IsModuleAccount(ctx, mod.GetAddress()))
	require.False(t, k.IsModuleAccount(ctx, addr(9)))
}

func TestParamsDefaultsAndOverrides(t *testing.T) {
	ctx, k := setup(t)

	require.Equal(t, types.DefaultParams(), k.GetParams(ctx))

	p := types.DefaultParams()
	p.MaxMemoCharacters = 64
	k.SetParams(ctx, p)
	require.Equal(t, uint64(64), k.GetParams(ctx).MaxMemoCharacters)
}

func TestGenesisRoundTrip(t *testing.T) {
	ctx, k := setup(t)

	k.NewAccountWithAddress(ctx, addr(1))
	k.NewAccountWithAddress(ctx, addr(2))

	exported := k.ExportGenesis(ctx)
	require.Len(t, exported.Accounts, 2)

	ctx2, k2 := setup(t)
	k2.InitGenesis(ctx2, exported)

	// the counter continues past imported accounts
	next := k2.NewAccountWithAddress(ctx2, addr(3))
	require.Equal(t, uint64(2), next.AccountNumber)
}
