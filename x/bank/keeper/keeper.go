package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/bank/types"
)

// Keeper maintains balances, per-denom supply and denom metadata, and
// implements the transfer semantics: debits are computed and checked before
// any credit is applied.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
	ak       types.AccountKeeper
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper, ak types.AccountKeeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
		ak:       ak,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdkctx.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) GetParams(ctx sdkctx.ReadContext) types.Params {
	p := types.DefaultParams()
	if v, ok := k.subspace.GetBool(ctx, types.KeySendEnabled); ok {
		p.SendEnabled = v
	}
	return p
}

func (k Keeper) SetParams(ctx sdkctx.Context, p types.Params) {
	k.subspace.SetBool(ctx, types.KeySendEnabled, p.SendEnabled)
}

// GetBalance returns the balance of one denom, zero if absent.
func (k Keeper) GetBalance(ctx sdkctx.ReadContext, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := ctx.KVStore(k.storeKey).Get(types.BalanceKey(addr, denom))
	if bz == nil {
		return sdk.Coin{Denom: denom, Amount: sdkmath.ZeroInt()}
	}

	amount, ok := sdkmath.NewIntFromString(string(bz))
	if !ok {
		panic(fmt.Sprintf("corrupt balance record for %s/%s", addr, denom))
	}

	return sdk.Coin{Denom: denom, Amount: amount}
}

// GetAllBalances returns every denom the account holds, sorted.
func (k Keeper) GetAllBalances(ctx sdkctx.ReadContext, addr sdk.AccAddress) sdk.Coins {
	var coins []sdk.Coin

	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.AddressBalancesPrefix(addr))
	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		amount, ok := sdkmath.NewIntFromString(string(it.Value()))
		if !ok {
			panic(fmt.Sprintf("corrupt balance record for %s", addr))
		}
		coins = append(coins, sdk.Coin{Denom: string(it.Key()), Amount: amount})
	}

	return sdk.NewCoins(coins...)
}

// setBalance writes or clears one (address, denom) balance.
func (k Keeper) setBalance(ctx sdkctx.Context, addr sdk.AccAddress, coin sdk.Coin) {
	store := ctx.KVStoreMut(k.storeKey)
	key := types.BalanceKey(addr, coin.Denom)

	if coin.Amount.IsZero() {
		store.Delete(key)
		return
	}

	store.Set(key, []byte(coin.Amount.String()))
}

// GetSupply returns one denom's total supply.
func (k Keeper) GetSupply(ctx sdkctx.ReadContext, denom string) sdk.Coin {
	bz := ctx.KVStore(k.storeKey).Get(types.SupplyKey(denom))
	if bz == nil {
		return sdk.Coin{Denom: denom, Amount: sdkmath.ZeroInt()}
	}

	amount, ok := sdkmath.NewIntFromString(string(bz))
	if !ok {
		panic(fmt.Sprintf("corrupt supply record for %s", denom))
	}

	return sdk.Coin{Denom: denom, Amount: amount}
}

// GetTotalSupply returns the supply of every denom.
func (k Keeper) GetTotalSupply(ctx sdkctx.ReadContext) sdk.Coins {
	var coins []sdk.Coin

	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.SupplyPrefix)
	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		amount, ok := sdkmath.NewIntFromString(string(it.Value()))
		if !ok {
			panic("corrupt supply record")
		}
		coins = append(coins, sdk.Coin{Denom: string(it.Key()), Amount: amount})
	}

	return sdk.NewCoins(coins...)
}

func (k Keeper) setSupply(ctx sdkctx.Context, coin sdk.Coin) {
	store := ctx.KVStoreMut(k.storeKey)
	key := types.SupplyKey(coin.Denom)

	if coin.Amount.IsZero() {
		store.Delete(key)
		return
	}

	store.Set(key, []byte(coin.Amount.String()))
}

// SetDenomMetadata stores a denom's metadata record.
func (k Keeper) SetDenomMetadata(ctx sdkctx.Context, meta types.Metadata) {
	bz, err := marshalMetadata(meta)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.DenomMetadataKey(meta.Base), bz)
}

// GetDenomMetadata returns a denom's metadata, if registered.
func (k Keeper) GetDenomMetadata(ctx sdkctx.ReadContext, denom string) (types.Metadata, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.DenomMetadataKey(denom))
	if bz == nil {
		return types.Metadata{}, false
	}

	meta, err := unmarshalMetadata(bz)
	if err != nil {
		panic(fmt.Sprintf("corrupt denom metadata for %s: %v", denom, err))
	}
	return meta, true
}

// BlockedAddr reports whether an address may not receive external transfers.
// Module accounts are blocked.
func (k Keeper) BlockedAddr(ctx sdkctx.ReadContext, addr sdk.AccAddress) bool {
	return k.ak.IsModuleAccount(ctx, addr)
}

// subUnlockedCoins debits an account, failing on insufficient funds. All
// debits of a transfer run before any credit.
func (k Keeper) subUnlockedCoins(ctx sdkctx.Context, addr sdk.AccAddress, amount sdk.Coins) error {
	for _, coin := range amount {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(types.ErrInsufficientFunds,
				"spendable balance %s is smaller than %s", balance, coin)
		}

		k.setBalance(ctx, addr, balance.Sub(coin))
	}

	ctx.EventManager().EmitEvent(types.NewCoinSpentEvent(addr, amount))
	return nil
}

// addCoins credits an account, creating it on first receipt.
func (k Keeper) addCoins(ctx sdkctx.Context, addr sdk.AccAddress, amount sdk.Coins) {
	for _, coin := range amount {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		k.setBalance(ctx, addr, balance.Add(coin))
	}

	if !k.ak.HasAccount(ctx, addr) {
		k.ak.NewAccountWithAddress(ctx, addr)
	}

	ctx.EventManager().EmitEvent(types.NewCoinReceivedEvent(addr, amount))
}

// SendCoins transfers amount between accounts and emits the transfer event.
func (k Keeper) SendCoins(ctx sdkctx.Context, from, to sdk.AccAddress, amount sdk.Coins) error {
	if err := k.subUnlockedCoins(ctx, from, amount); err != nil {
		return err
	}

	k.addCoins(ctx, to, amount)

	ctx.EventManager().EmitEvent(types.NewTransferEvent(to, from, amount))
	return nil
}

// SendCoinsFromAccountToModule moves coins into a module account, creating
// the module account on first use.
func (k Keeper) SendCoinsFromAccountToModule(ctx sdkctx.Context, from sdk.AccAddress, toModule string, amount sdk.Coins) error {
	mod := k.ak.EnsureModuleAccount(ctx, toModule)
	return k.SendCoins(ctx, from, mod.GetAddress(), amount)
}

// SendCoinsFromModuleToAccount pays out of a module account.
func (k Keeper) SendCoinsFromModuleToAccount(ctx sdkctx.Context, fromModule string, to sdk.AccAddress, amount sdk.Coins) error {
	mod := k.ak.EnsureModuleAccount(ctx, fromModule)
	return k.SendCoins(ctx, mod.GetAddress(), to, amount)
}

// SendCoinsFromModuleToModule moves coins between module accounts.
func (k Keeper) SendCoinsFromModuleToModule(ctx sdkctx.Context, fromModule, toModule string, amount sdk.Coins) error {
	to := k.ak.EnsureModuleAccount(ctx, toModule)
	return k.SendCoinsFromModuleToAccount(ctx, fromModule, to.GetAddress(), amount)
}

// MintCoins creates new supply inside a module account. Only genesis and
// module logic reach this.
func (k Keeper) MintCoins(ctx sdkctx.Context, moduleName string, amount sdk.Coins) {
	mod := k.ak.EnsureModuleAccount(ctx, moduleName)
	k.addCoins(ctx, mod.GetAddress(), amount)

	for _, coin := range amount {
		supply := k.GetSupply(ctx, coin.Denom)
		k.setSupply(ctx, supply.Add(coin))
	}
}

// BurnCoins destroys supply held by a module account.
func (k Keeper) BurnCoins(ctx sdkctx.Context, moduleName string, amount sdk.Coins) error {
	mod := k.ak.EnsureModuleAccount(ctx, moduleName)
	if err := k.subUnlockedCoins(ctx, mod.GetAddress(), amount); err != nil {
		return err
	}

	for _, coin := range amount {
		supply := k.GetSupply(ctx, coin.Denom)
		k.setSupply(ctx, supply.Sub(coin))
	}

	return nil
}
