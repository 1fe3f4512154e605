package keeper

import (
	"encoding/binary"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/encoding"

	"github.com/gears-network/gears/store/prefix"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/types/tx"
	"github.com/gears-network/gears/x/staking/types"
)

// BondValidators promotes every eligible validator into the bonded set up to
// MaxValidators, moving pool tokens as statuses flip. Returns the bonded set
// by power.
func (k Keeper) BondValidators(ctx sdkctx.Context) ([]types.Validator, error) {
	maxValidators := int(k.GetParams(ctx).MaxValidators)

	var candidates []types.Validator
	k.IterateValidators(ctx, func(v types.Validator) bool {
		if !v.Jailed && v.Tokens.IsPositive() {
			candidates = append(candidates, v)
		}
		return false
	})

	sortByPowerDesc(candidates)

	bonded := map[string]bool{}

	top := candidates
	if len(top) > maxValidators {
		top = top[:maxValidators]
	}

	for _, v := range top {
		bonded[string(v.OperatorAddress)] = true
		if v.Status != types.Bonded {
			amount := sdk.NewCoins(sdk.Coin{Denom: k.BondDenom(ctx), Amount: v.Tokens})
			if !amount.IsZero() {
				if err := k.bk.SendCoinsFromModuleToModule(ctx, types.NotBondedPoolName, types.BondedPoolName, amount); err != nil {
					return nil, err
				}
			}
			v.Status = types.Bonded
			k.SetValidator(ctx, v)
		}
	}

	// demote anyone bonded who fell out of the set, returning their backing
	// tokens to the not-bonded pool
	var demoted []types.Validator
	k.IterateValidators(ctx, func(v types.Validator) bool {
		if v.Status == types.Bonded && !bonded[string(v.OperatorAddress)] {
			demoted = append(demoted, v)
		}
		return false
	})

	for _, v := range demoted {
		amount := sdk.NewCoins(sdk.Coin{Denom: k.BondDenom(ctx), Amount: v.Tokens})
		if !amount.IsZero() {
			if err := k.bk.SendCoinsFromModuleToModule(ctx, types.BondedPoolName, types.NotBondedPoolName, amount); err != nil {
				return nil, err
			}
		}
		v.Status = types.Unbonding
		k.SetValidator(ctx, v)
	}

	return k.BondedValidatorsByPower(ctx), nil
}

func sortByPowerDesc(vals []types.Validator) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0; j-- {
			pi, pj := vals[j].ConsensusPower(), vals[j-1].ConsensusPower()
			swap := pi > pj || (pi == pj && vals[j].OperatorAddress.String() < vals[j-1].OperatorAddress.String())
			if !swap {
				break
			}
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}

// ValidatorUpdates diffs the current bonded powers against the last recorded
// set and records the new powers. The diff is what end-block reports to the
// consensus engine.
func (k Keeper) ValidatorUpdates(ctx sdkctx.Context) ([]abci.ValidatorUpdate, error) {
	bondedSet, err := k.BondValidators(ctx)
	if err != nil {
		return nil, err
	}

	last := k.lastValidatorPowers(ctx)

	var updates []abci.ValidatorUpdate
	store := ctx.KVStoreMut(k.storeKey)

	seen := map[string]bool{}
	for _, v := range bondedSet {
		power := v.ConsensusPower()
		opKey := string(v.OperatorAddress)
		seen[opKey] = true

		if last[opKey] != power {
			update, err := validatorUpdate(v.ConsensusPubKey, power)
			if err != nil {
				return nil, err
			}
			updates = append(updates, update)

			bz := make([]byte, 8)
			binary.BigEndian.PutUint64(bz, uint64(power))
			store.Set(types.GetLastValidatorPowerKey(v.OperatorAddress), bz)
		}
	}

	// validators that disappeared from the set drop to zero power
	for opKey, power := range last {
		if seen[opKey] || power == 0 {
			continue
		}

		v, found := k.GetValidator(ctx, sdk.ValAddress(opKey))
		if !found {
			continue
		}

		update, err := validatorUpdate(v.ConsensusPubKey, 0)
		if err != nil {
			return nil, err
		}
		updates = append(updates, update)
		store.Delete(types.GetLastValidatorPowerKey(v.OperatorAddress))
	}

	return updates, nil
}

// lastValidatorPowers reads the previously reported powers, keyed by
// operator address bytes.
func (k Keeper) lastValidatorPowers(ctx sdkctx.ReadContext) map[string]int64 {
	out := map[string]int64{}

	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.LastValidatorPowerKey)
	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		out[string(it.Key())] = int64(binary.BigEndian.Uint64(it.Value()))
	}

	return out
}

func validatorUpdate(pubKey *tx.PubKey, power int64) (abci.ValidatorUpdate, error) {
	protoPk, err := encoding.PubKeyToProto(pubKey.CometPubKey())
	if err != nil {
		return abci.ValidatorUpdate{}, err
	}

	return abci.ValidatorUpdate{PubKey: protoPk, Power: power}, nil
}
