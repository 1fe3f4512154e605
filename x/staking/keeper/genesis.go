package keeper

import (
	abci "github.com/cometbft/cometbft/abci/types"

	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/staking/types"
)

// InitGenesis writes validators, delegations and unbonding records, then
// bonds the initial set and returns it to the consensus engine.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) []abci.ValidatorUpdate {
	k.SetParams(ctx, genesis.Params)

	for _, v := range genesis.Validators {
		if v.Status == "" {
			v.Status = types.Unbonded
		}
		k.SetValidator(ctx, v)
	}

	for _, d := range genesis.Delegations {
		k.SetDelegation(ctx, d)
	}

	for _, ubd := range genesis.UnbondingDelegations {
		k.SetUnbondingDelegation(ctx, ubd)
		for _, entry := range ubd.Entries {
			k.insertUnbondingQueue(ctx, ubd.DelegatorAddress, ubd.ValidatorAddress, entry.CompletionTime)
		}
	}

	if len(genesis.Validators) == 0 {
		return nil
	}

	updates, err := k.ValidatorUpdates(ctx)
	if err != nil {
		panic(err)
	}
	return updates
}

// ExportGenesis reads the staking state back out in store order.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	genesis := types.GenesisState{
		Params:               k.GetParams(ctx),
		Validators:           []types.Validator{},
		Delegations:          []types.Delegation{},
		UnbondingDelegations: []types.UnbondingDelegation{},
	}

	k.IterateValidators(ctx, func(v types.Validator) bool {
		genesis.Validators = append(genesis.Validators, v)
		return false
	})

	k.IterateAllDelegations(ctx, func(d types.Delegation) bool {
		genesis.Delegations = append(genesis.Delegations, d)
		return false
	})

	k.IterateUnbondingDelegations(ctx, func(ubd types.UnbondingDelegation) bool {
		genesis.UnbondingDelegations = append(genesis.UnbondingDelegations, ubd)
		return false
	})

	return genesis
}
