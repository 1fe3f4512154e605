package keeper

import (
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/bank/types"
)

// InitGenesis writes balances and metadata and reconciles supply: the stored
// supply is always the sum of stored balances, whatever the genesis claimed.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) {
	k.SetParams(ctx, genesis.Params)

	var total sdk.Coins
	for _, balance := range genesis.Balances {
		for _, coin := range balance.Coins {
			k.setBalance(ctx, balance.Address, coin)
		}

		if !k.ak.HasAccount(ctx, balance.Address) {
			k.ak.NewAccountWithAddress(ctx, balance.Address)
		}

		total = total.Add(balance.Coins...)
	}

	for _, coin := range total {
		k.setSupply(ctx, coin)
	}

	for _, meta := range genesis.DenomMetadata {
		k.SetDenomMetadata(ctx, meta)
	}
}

// ExportGenesis reads the balance set back out in canonical order.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	genesis := types.GenesisState{
		Params:        k.GetParams(ctx),
		Balances:      []types.Balance{},
		Supply:        k.GetTotalSupply(ctx),
		DenomMetadata: []types.Metadata{},
	}

	balances := map[string]*types.Balance{}
	k.IterateAllBalances(ctx, func(addr sdk.AccAddress, coin sdk.Coin) bool {
		key := addr.String()
		if b, ok := balances[key]; ok {
			b.Coins = b.Coins.Add(coin)
		} else {
			balances[key] = &types.Balance{Address: addr, Coins: sdk.NewCoins(coin)}
		}
		return false
	})

	for _, b := range balances {
		genesis.Balances = append(genesis.Balances, *b)
	}
	types.SortBalances(genesis.Balances)

	k.IterateDenomMetadata(ctx, func(meta types.Metadata) bool {
		genesis.DenomMetadata = append(genesis.DenomMetadata, meta)
		return false
	})

	return genesis
}

// IterateAllBalances walks every (address, denom) balance in key order.
func (k Keeper) IterateAllBalances(ctx sdkctx.ReadContext, cb func(sdk.AccAddress, sdk.Coin) bool) {
	iterateBalances(ctx, k.storeKey, cb)
}

// IterateDenomMetadata walks all metadata records in denom order.
func (k Keeper) IterateDenomMetadata(ctx sdkctx.ReadContext, cb func(types.Metadata) bool) {
	iterateMetadata(ctx, k.storeKey, cb)
}
