package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/bank/types"
)

// iterateBalances decodes the balances keyspace: each key is
// len(addr) || addr || denom under the balances prefix.
func iterateBalances(ctx sdkctx.ReadContext, storeKey storetypes.StoreKey, cb func(sdk.AccAddress, sdk.Coin) bool) {
	store := prefix.NewStore(ctx.KVStore(storeKey), types.BalancesPrefix)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := it.Key()
		addrLen := int(key[0])
		if len(key) < 1+addrLen {
			panic("corrupt balance key")
		}

		addr := sdk.AccAddress(key[1 : 1+addrLen])
		denom := string(key[1+addrLen:])

		amount, ok := sdkmath.NewIntFromString(string(it.Value()))
		if !ok {
			panic(fmt.Sprintf("corrupt balance record for %s/%s", addr, denom))
		}

		if cb(addr, sdk.Coin{Denom: denom, Amount: amount}) {
			break
		}
	}
}

func iterateMetadata(ctx sdkctx.ReadContext, storeKey storetypes.StoreKey, cb func(types.Metadata) bool) {
	store := prefix.NewStore(ctx.KVStore(storeKey), types.DenomMetadataPrefix)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		meta, err := unmarshalMetadata(it.Value())
		if err != nil {
			panic(fmt.Sprintf("corrupt denom metadata: %v", err))
		}
		if cb(meta) {
			break
		}
	}
}
