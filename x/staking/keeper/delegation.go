package keeper

import (
	"encoding/json"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/store/prefix"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/staking/types"
)

// Delegate bonds amount from the delegator to the validator, moving the
// tokens into the bonded pool.
func (k Keeper) Delegate(ctx sdkctx.Context, del sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) error {
	if amount.Denom != k.BondDenom(ctx) {
		return errorsmod.Wrapf(types.ErrInvalidDenom, "got %s, expected %s", amount.Denom, k.BondDenom(ctx))
	}

	validator, found := k.GetValidator(ctx, valAddr)
	if !found {
		return errorsmod.Wrapf(types.ErrNoValidatorFound, "%s", valAddr)
	}
	if validator.Jailed {
		return errorsmod.Wrapf(types.ErrValidatorJailed, "%s", valAddr)
	}

	pool := types.BondedPoolName
	if validator.Status != types.Bonded {
		pool = types.NotBondedPoolName
	}
	if err := k.bk.SendCoinsFromAccountToModule(ctx, del, pool, sdk.NewCoins(amount)); err != nil {
		return err
	}

	delegation, found := k.GetDelegation(ctx, del, valAddr)
	if !found {
		delegation = types.Delegation{
			DelegatorAddress: del,
			ValidatorAddress: valAddr,
			Tokens:           sdkmath.ZeroInt(),
		}
	}
	delegation.Tokens = delegation.Tokens.Add(amount.Amount)
	k.SetDelegation(ctx, delegation)

	validator.Tokens = validator.Tokens.Add(amount.Amount)
	k.SetValidator(ctx, validator)

	ctx.EventManager().EmitEvent(sdk.NewEvent("delegate",
		sdk.NewAttribute("validator", valAddr.String()),
		sdk.NewAttribute("delegator", del.String()),
		sdk.NewAttribute("amount", amount.String()),
	))

	return nil
}

// Undelegate begins unbonding: tokens leave the bonded pool immediately and
// are paid out when the unbonding period completes.
func (k Keeper) Undelegate(ctx sdkctx.Context, del sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) (time.Time, error) {
	if amount.Denom != k.BondDenom(ctx) {
		return time.Time{}, errorsmod.Wrapf(types.ErrInvalidDenom, "got %s, expected %s", amount.Denom, k.BondDenom(ctx))
	}

	validator, found := k.GetValidator(ctx, valAddr)
	if !found {
		return time.Time{}, errorsmod.Wrapf(types.ErrNoValidatorFound, "%s", valAddr)
	}

	delegation, found := k.GetDelegation(ctx, del, valAddr)
	if !found {
		return time.Time{}, types.ErrNoDelegation
	}
	if delegation.Tokens.LT(amount.Amount) {
		return time.Time{}, errorsmod.Wrapf(types.ErrInsufficientDelegation,
			"delegated %s, requested %s", delegation.Tokens, amount.Amount)
	}

	delegation.Tokens = delegation.Tokens.Sub(amount.Amount)
	if delegation.Tokens.IsZero() {
		k.removeDelegation(ctx, delegation)
	} else {
		k.SetDelegation(ctx, delegation)
	}

	validator.Tokens = validator.Tokens.Sub(amount.Amount)
	k.SetValidator(ctx, validator)

	if validator.Status == types.Bonded {
		if err := k.bk.SendCoinsFromModuleToModule(ctx, types.BondedPoolName, types.NotBondedPoolName, sdk.NewCoins(amount)); err != nil {
			return time.Time{}, err
		}
	}

	completion := ctx.BlockTime().Add(k.GetParams(ctx).UnbondingTime)

	ubd, _ := k.GetUnbondingDelegation(ctx, del, valAddr)
	ubd.DelegatorAddress = del
	ubd.ValidatorAddress = valAddr
	ubd.Entries = append(ubd.Entries, types.UnbondingDelegationEntry{
		CreationHeight: ctx.Height(),
		CompletionTime: completion,
		Balance:        amount.Amount,
	})
	k.SetUnbondingDelegation(ctx, ubd)
	k.insertUnbondingQueue(ctx, del, valAddr, completion)

	ctx.EventManager().EmitEvent(sdk.NewEvent("unbond",
		sdk.NewAttribute("validator", valAddr.String()),
		sdk.NewAttribute("delegator", del.String()),
		sdk.NewAttribute("amount", amount.String()),
		sdk.NewAttribute("completion_time", completion.UTC().Format(time.RFC3339)),
	))

	return completion, nil
}

// GetUnbondingDelegation returns one pair's unbonding record.
func (k Keeper) GetUnbondingDelegation(ctx sdkctx.ReadContext, del sdk.AccAddress, val sdk.ValAddress) (types.UnbondingDelegation, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetUnbondingDelegationKey(del, val))
	if bz == nil {
		return types.UnbondingDelegation{}, false
	}

	var ubd types.UnbondingDelegation
	if err := json.Unmarshal(bz, &ubd); err != nil {
		panic(fmt.Sprintf("corrupt unbonding record: %v", err))
	}
	return ubd, true
}

func (k Keeper) SetUnbondingDelegation(ctx sdkctx.Context, ubd types.UnbondingDelegation) {
	bz, err := json.Marshal(ubd)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.GetUnbondingDelegationKey(ubd.DelegatorAddress, ubd.ValidatorAddress), bz)
}

func (k Keeper) removeUnbondingDelegation(ctx sdkctx.Context, ubd types.UnbondingDelegation) {
	ctx.KVStoreMut(k.storeKey).Delete(types.GetUnbondingDelegationKey(ubd.DelegatorAddress, ubd.ValidatorAddress))
}

// queueRecord is one unbonding queue slot: all pairs completing at one time.
type queueRecord struct {
	Pairs []queuePair `json:"pairs"`
}

type queuePair struct {
	Delegator sdk.AccAddress `json:"delegator"`
	Validator sdk.ValAddress `json:"validator"`
}

func (k Keeper) insertUnbondingQueue(ctx sdkctx.Context, del sdk.AccAddress, val sdk.ValAddress, completion time.Time) {
	store := ctx.KVStoreMut(k.storeKey)
	key := types.GetUnbondingQueueKey(completion)

	var record queueRecord
	if bz := store.Get(key); bz != nil {
		if err := json.Unmarshal(bz, &record); err != nil {
			panic(fmt.Sprintf("corrupt unbonding queue record: %v", err))
		}
	}

	record.Pairs = append(record.Pairs, queuePair{Delegator: del, Validator: val})

	bz, err := json.Marshal(record)
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// CompleteMatureUnbondings drains queue entries whose completion time is not
// after the block time, paying the balances out of the not-bonded pool.
func (k Keeper) CompleteMatureUnbondings(ctx sdkctx.Context) error {
	now := ctx.BlockTime()
	store := ctx.KVStoreMut(k.storeKey)
	queue := prefix.NewStoreMut(store, types.UnbondingQueueKey)

	// end bound is exclusive; pad past the timestamp of "now"
	end := append(types.FormatTimeBytes(now), 0xff)

	type drained struct {
		key   []byte
		pairs []queuePair
	}
	var batch []drained

	it := queue.Iterator(nil, end)
	for ; it.Valid(); it.Next() {
		var record queueRecord
		if err := json.Unmarshal(it.Value(), &record); err != nil {
			it.Close()
			panic(fmt.Sprintf("corrupt unbonding queue record: %v", err))
		}
		batch = append(batch, drained{key: append([]byte{}, it.Key()...), pairs: record.Pairs})
	}
	it.Close()

	for _, item := range batch {
		for _, pair := range item.pairs {
			if err := k.completeUnbonding(ctx, pair.Delegator, pair.Validator, now); err != nil {
				return err
			}
		}
		queue.Delete(item.key)
	}

	return nil
}

func (k Keeper) completeUnbonding(ctx sdkctx.Context, del sdk.AccAddress, val sdk.ValAddress, now time.Time) error {
	ubd, found := k.GetUnbondingDelegation(ctx, del, val)
	if !found {
		return nil
	}

	denom := k.BondDenom(ctx)
	remaining := ubd.Entries[:0]

	for _, entry := range ubd.Entries {
		if entry.CompletionTime.After(now) {
			remaining = append(remaining, entry)
			continue
		}

		if entry.Balance.IsPositive() {
			amount := sdk.NewCoins(sdk.Coin{Denom: denom, Amount: entry.Balance})
			if err := k.bk.SendCoinsFromModuleToAccount(ctx, types.NotBondedPoolName, del, amount); err != nil {
				return err
			}
		}
	}

	ubd.Entries = remaining
	if len(ubd.Entries) == 0 {
		k.removeUnbondingDelegation(ctx, ubd)
	} else {
		k.SetUnbondingDelegation(ctx, ubd)
	}

	return nil
}

// IterateUnbondingDelegations walks every unbonding record in key order.
func (k Keeper) IterateUnbondingDelegations(ctx sdkctx.ReadContext, cb func(types.UnbondingDelegation) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.UnbondingDelegationKey)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var ubd types.UnbondingDelegation
		if err := json.Unmarshal(it.Value(), &ubd); err != nil {
			panic(fmt.Sprintf("corrupt unbonding record: %v", err))
		}
		if cb(ubd) {
			break
		}
	}
}

// GetDelegatorBonded sums a delegator's tokens across bonded validators;
// this is the voting power governance tallies with.
func (k Keeper) GetDelegatorBonded(ctx sdkctx.ReadContext, del sdk.AccAddress) sdkmath.Int {
	bonded := sdkmath.ZeroInt()

	k.IterateDelegatorDelegations(ctx, del, func(d types.Delegation) bool {
		if v, found := k.GetValidator(ctx, d.ValidatorAddress); found && v.Status == types.Bonded {
			bonded = bonded.Add(d.Tokens)
		}
		return false
	})

	return bonded
}

// IterateBondedValidators walks the bonded set in operator-address order,
// the shape reward allocation consumes.
func (k Keeper) IterateBondedValidators(ctx sdkctx.ReadContext, cb func(operator sdk.ValAddress, tokens sdkmath.Int, power int64) bool) {
	k.IterateValidators(ctx, func(v types.Validator) bool {
		if v.Status != types.Bonded || v.Jailed {
			return false
		}
		return cb(v.OperatorAddress, v.Tokens, v.ConsensusPower())
	})
}

// GetDelegationTokens returns one delegation's token amount.
func (k Keeper) GetDelegationTokens(ctx sdkctx.ReadContext, del sdk.AccAddress, val sdk.ValAddress) (sdkmath.Int, bool) {
	d, found := k.GetDelegation(ctx, del, val)
	if !found {
		return sdkmath.ZeroInt(), false
	}
	return d.Tokens, true
}

// GetValidatorTokens returns one validator's total tokens.
func (k Keeper) GetValidatorTokens(ctx sdkctx.ReadContext, val sdk.ValAddress) (sdkmath.Int, bool) {
	v, found := k.GetValidator(ctx, val)
	if !found {
		return sdkmath.ZeroInt(), false
	}
	return v.Tokens, true
}

// TotalBondedTokens sums all bonded validators' tokens.
func (k Keeper) TotalBondedTokens(ctx sdkctx.ReadContext) sdkmath.Int {
	total := sdkmath.ZeroInt()
	k.IterateValidators(ctx, func(v types.Validator) bool {
		if v.Status == types.Bonded && !v.Jailed {
			total = total.Add(v.Tokens)
		}
		return false
	})
	return total
}
