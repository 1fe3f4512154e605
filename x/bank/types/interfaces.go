package types

import (
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	authtypes "github.com/gears-network/gears/x/auth/types"
)

// AccountKeeper is the slice of x/auth the bank keeper needs. Cross-module
// dependencies are interfaces, never concrete keeper types.
type AccountKeeper interface {
	GetAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) authtypes.Account
	HasAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) bool
	NewAccountWithAddress(ctx sdkctx.Context, addr sdk.AccAddress) *authtypes.BaseAccount
	GetModuleAddress(name string) sdk.AccAddress
	EnsureModuleAccount(ctx sdkctx.Context, name string) *authtypes.ModuleAccount
	IsModuleAccount(ctx sdkctx.ReadContext, addr sdk.AccAddress) bool
}
