package types

import (
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
)

// BankKeeper is the slice of x/bank the staking keeper needs to move bonded
// tokens between the delegator and the pool accounts.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx sdkctx.Context, from sdk.AccAddress, toModule string, amount sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx sdkctx.Context, fromModule string, to sdk.AccAddress, amount sdk.Coins) error
	SendCoinsFromModuleToModule(ctx sdkctx.Context, fromModule, toModule string, amount sdk.Coins) error
	BurnCoins(ctx sdkctx.Context, moduleName string, amount sdk.Coins) error
}
