package types

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
)

// BankKeeper is the slice of x/bank the gov keeper needs for deposits.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx sdkctx.Context, from sdk.AccAddress, toModule string, amount sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx sdkctx.Context, fromModule string, to sdk.AccAddress, amount sdk.Coins) error
	BurnCoins(ctx sdkctx.Context, moduleName string, amount sdk.Coins) error
}

// StakingKeeper supplies the voting power governance tallies over.
type StakingKeeper interface {
	GetDelegatorBonded(ctx sdkctx.ReadContext, del sdk.AccAddress) sdkmath.Int
	TotalBondedTokens(ctx sdkctx.ReadContext) sdkmath.Int
}
