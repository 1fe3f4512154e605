package keeper

import (
	"encoding/json"
	"fmt"

	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/auth/types"
)

// InitGenesis stores the params and every genesis account. Account numbers
// already present in the genesis records are honored; the global counter is
// advanced past the highest one.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) {
	k.SetParams(ctx, genesis.Params)

	var maxNumber uint64
	seenAny := false

	for _, raw := range genesis.Accounts {
		acc, err := types.UnmarshalAccount(raw)
		if err != nil {
			panic(fmt.Errorf("invalid genesis account: %w", err))
		}

		k.SetAccount(ctx, acc)
		if acc.GetAccountNumber() >= maxNumber {
			maxNumber = acc.GetAccountNumber()
			seenAny = true
		}
	}

	if seenAny {
		k.setAccountNumber(ctx, maxNumber+1)
	}
}

// ExportGenesis walks the account set back into genesis form.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	genesis := types.GenesisState{
		Params:   k.GetParams(ctx),
		Accounts: []json.RawMessage{},
	}

	k.IterateAccounts(ctx, func(acc types.Account) bool {
		bz, err := types.MarshalAccount(acc)
		if err != nil {
			panic(err)
		}
		genesis.Accounts = append(genesis.Accounts, bz)
		return false
	})

	return genesis
}
