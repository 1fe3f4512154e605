package keeper

import (
	"encoding/binary"
	"fmt"

	"cosmossdk.io/log"

	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/auth/types"
)

// Keeper maintains the account set: address-keyed records plus the global
// account-number counter.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdkctx.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetParams returns the auth params, falling back to defaults for unset
// fields.
func (k Keeper) GetParams(ctx sdkctx.ReadContext) types.Params {
	p := types.DefaultParams()

	if v, ok := k.subspace.GetUint64(ctx, types.KeyMaxMemoCharacters); ok {
		p.MaxMemoCharacters = v
	}
	if v, ok := k.subspace.GetUint64(ctx, types.KeyTxSigLimit); ok {
		p.TxSigLimit = v
	}
	if v, ok := k.subspace.GetUint64(ctx, types.KeyTxSizeCostPerByte); ok {
		p.TxSizeCostPerByte = v
	}
	if v, ok := k.subspace.GetUint64(ctx, types.KeySigVerifyCostED25519); ok {
		p.SigVerifyCostED25519 = v
	}
	if v, ok := k.subspace.GetUint64(ctx, types.KeySigVerifyCostSecp256k1); ok {
		p.SigVerifyCostSecp256k1 = v
	}

	return p
}

func (k Keeper) SetParams(ctx sdkctx.Context, p types.Params) {
	k.subspace.SetUint64(ctx, types.KeyMaxMemoCharacters, p.MaxMemoCharacters)
	k.subspace.SetUint64(ctx, types.KeyTxSigLimit, p.TxSigLimit)
	k.subspace.SetUint64(ctx, types.KeyTxSizeCostPerByte, p.TxSizeCostPerByte)
	k.subspace.SetUint64(ctx, types.KeySigVerifyCostED25519, p.SigVerifyCostED25519)
	k.subspace.SetUint64(ctx, types.KeySigVerifyCostSecp256k1, p.SigVerifyCostSecp256k1)
}

// HasAccount reports account existence.
func (k Keeper) HasAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) bool {
	return ctx.KVStore(k.storeKey).Has(types.AddressStoreKey(addr))
}

// GetAccount returns nil if the account does not exist.
func (k Keeper) GetAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) types.Account {
	bz := ctx.KVStore(k.storeKey).Get(types.AddressStoreKey(addr))
	if bz == nil {
		return nil
	}

	acc, err := types.UnmarshalAccount(bz)
	if err != nil {
		panic(fmt.Errorf("corrupt account record: %w", err))
	}
	return acc
}

func (k Keeper) SetAccount(ctx sdkctx.Context, acc types.Account) {
	bz, err := types.MarshalAccount(acc)
	if err != nil {
		panic(err)
	}

	ctx.KVStoreMut(k.storeKey).Set(types.AddressStoreKey(acc.GetAddress()), bz)
}

// NewAccountWithAddress creates and stores a fresh base account with the
// next global account number.
func (k Keeper) NewAccountWithAddress(ctx sdkctx.Context, addr sdk.AccAddress) *types.BaseAccount {
	acc := types.NewBaseAccount(addr, k.NextAccountNumber(ctx))
	k.SetAccount(ctx, acc)
	return acc
}

// NextAccountNumber returns the next global account number and advances the
// counter. Strictly monotonic across the chain.
func (k Keeper) NextAccountNumber(ctx sdkctx.Context) uint64 {
	store := ctx.KVStoreMut(k.storeKey)

	var n uint64
	if bz := store.Get(types.GlobalAccountNumberKey); bz != nil {
		n = binary.BigEndian.Uint64(bz)
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, n+1)
	store.Set(types.GlobalAccountNumberKey, next)

	return n
}

// setAccountNumber overwrites the global counter; used only by genesis
// import.
func (k Keeper) setAccountNumber(ctx sdkctx.Context, n uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	ctx.KVStoreMut(k.storeKey).Set(types.GlobalAccountNumberKey, bz)
}

// GetModuleAddress derives a module account's address.
func (k Keeper) GetModuleAddress(name string) sdk.AccAddress {
	return types.NewModuleAddress(name)
}

// EnsureModuleAccount fetches the named module account, creating it on first
// use.
func (k Keeper) EnsureModuleAccount(ctx sdkctx.Context, name string) *types.ModuleAccount {
	addr := types.NewModuleAddress(name)

	if acc := k.GetAccount(ctx, addr); acc != nil {
		mod, ok := acc.(*types.ModuleAccount)
		if !ok {
			panic(fmt.Sprintf("account %s exists but is not a module account", addr))
		}
		return mod
	}

	mod := types.NewModuleAccount(name, k.NextAccountNumber(ctx))
	k.SetAccount(ctx, mod)
	k.Logger(ctx).Info("created module account", "name", name, "address", addr.String())
	return mod
}

// IsModuleAccount reports whether addr belongs to a module.
func (k Keeper) IsModuleAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) bool {
	acc := k.GetAccount(ctx, addr)
	if acc == nil {
		return false
	}

	_, ok := acc.(*types.ModuleAccount)
	return ok
}

// IterateAccounts walks all accounts in address order.
func (k Keeper) IterateAccounts(ctx sdkctx.ReadContext, cb func(types.Account) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.AddressStoreKeyPrefix)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		acc, err := types.UnmarshalAccount(it.Value())
		if err != nil {
			panic(fmt.Errorf("corrupt account record: %w", err))
		}
		if cb(acc) {
			break
		}
	}
}
