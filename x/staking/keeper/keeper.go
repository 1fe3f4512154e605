package keeper

import (
	"encoding/json"
	"fmt"
	"sort"

	"cosmossdk.io/log"

	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/staking/types"
)

// Keeper maintains validators, delegations and the unbonding queue.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
	bk       types.BankKeeper
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper, bk types.BankKeeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
		bk:       bk,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdkctx.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// Params are stored as one JSON record; the group is small and always read
// together.
var paramsKey = []byte("Params")

func (k Keeper) GetParams(ctx sdkctx.ReadContext) types.Params {
	bz := k.subspace.GetRaw(ctx, paramsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	var p types.Params
	if err := json.Unmarshal(bz, &p); err != nil {
		panic(fmt.Sprintf("corrupt staking params: %v", err))
	}
	return p
}

func (k Keeper) SetParams(ctx sdkctx.Context, p types.Params) {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	k.subspace.SetRaw(ctx, paramsKey, bz)
}

// BondDenom is the staking token's denomination.
func (k Keeper) BondDenom(ctx sdkctx.ReadContext) string {
	return k.GetParams(ctx).BondDenom
}

// GetValidator looks a validator up by operator address.
func (k Keeper) GetValidator(ctx sdkctx.ReadContext, addr sdk.ValAddress) (types.Validator, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetValidatorKey(addr))
	if bz == nil {
		return types.Validator{}, false
	}

	var v types.Validator
	if err := json.Unmarshal(bz, &v); err != nil {
		panic(fmt.Sprintf("corrupt validator record: %v", err))
	}
	return v, true
}

// GetValidatorByConsAddr resolves the consensus identity to a validator.
func (k Keeper) GetValidatorByConsAddr(ctx sdkctx.ReadContext, consAddr sdk.ConsAddress) (types.Validator, bool) {
	opAddr := ctx.KVStore(k.storeKey).Get(types.GetValidatorByConsKey(consAddr))
	if opAddr == nil {
		return types.Validator{}, false
	}
	return k.GetValidator(ctx, sdk.ValAddress(opAddr))
}

// SetValidator writes a validator and its consensus-address index.
func (k Keeper) SetValidator(ctx sdkctx.Context, v types.Validator) {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	store := ctx.KVStoreMut(k.storeKey)
	store.Set(types.GetValidatorKey(v.OperatorAddress), bz)
	store.Set(types.GetValidatorByConsKey(v.ConsAddress()), v.OperatorAddress)
}

// IterateValidators walks all validators in operator-address order.
func (k Keeper) IterateValidators(ctx sdkctx.ReadContext, cb func(types.Validator) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.ValidatorsKey)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var v types.Validator
		if err := json.Unmarshal(it.Value(), &v); err != nil {
			panic(fmt.Sprintf("corrupt validator record: %v", err))
		}
		if cb(v) {
			break
		}
	}
}

// BondedValidatorsByPower returns the bonded set sorted by descending power,
// operator address ascending as the tie-break.
func (k Keeper) BondedValidatorsByPower(ctx sdkctx.ReadContext) []types.Validator {
	var vals []types.Validator
	k.IterateValidators(ctx, func(v types.Validator) bool {
		if v.Status == types.Bonded && !v.Jailed {
			vals = append(vals, v)
		}
		return false
	})

	sort.Slice(vals, func(i, j int) bool {
		pi, pj := vals[i].ConsensusPower(), vals[j].ConsensusPower()
		if pi != pj {
			return pi > pj
		}
		return vals[i].OperatorAddress.String() < vals[j].OperatorAddress.String()
	})

	return vals
}

// GetDelegation returns one (delegator, validator) delegation.
func (k Keeper) GetDelegation(ctx sdkctx.ReadContext, del sdk.AccAddress, val sdk.ValAddress) (types.Delegation, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetDelegationKey(del, val))
	if bz == nil {
		return types.Delegation{}, false
	}

	var d types.Delegation
	if err := json.Unmarshal(bz, &d); err != nil {
		panic(fmt.Sprintf("corrupt delegation record: %v", err))
	}
	return d, true
}

func (k Keeper) SetDelegation(ctx sdkctx.Context, d types.Delegation) {
	bz, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.GetDelegationKey(d.DelegatorAddress, d.ValidatorAddress), bz)
}

func (k Keeper) removeDelegation(ctx sdkctx.Context, d types.Delegation) {
	ctx.KVStoreMut(k.storeKey).Delete(types.GetDelegationKey(d.DelegatorAddress, d.ValidatorAddress))
}

// IterateDelegatorDelegations walks one delegator's delegations.
func (k Keeper) IterateDelegatorDelegations(ctx sdkctx.ReadContext, del sdk.AccAddress, cb func(types.Delegation) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetDelegationsPrefix(del))

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var d types.Delegation
		if err := json.Unmarshal(it.Value(), &d); err != nil {
			panic(fmt.Sprintf("corrupt delegation record: %v", err))
		}
		if cb(d) {
			break
		}
	}
}

// IterateAllDelegations walks every delegation in key order.
func (k Keeper) IterateAllDelegations(ctx sdkctx.ReadContext, cb func(types.Delegation) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.DelegationKey)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var d types.Delegation
		if err := json.Unmarshal(it.Value(), &d); err != nil {
			panic(fmt.Sprintf("corrupt delegation record: %v", err))
		}
		if cb(d) {
			break
		}
	}
}
