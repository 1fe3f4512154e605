package keeper

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/staking/types"
)

// Slash burns slashFactor (in basis points of 10_000) of the validator's
// tokens out of the backing pool. Called by the slashing module.
func (k Keeper) Slash(ctx sdkctx.Context, consAddr sdk.ConsAddress, slashFactorBps int64) sdkmath.Int {
	validator, found := k.GetValidatorByConsAddr(ctx, consAddr)
	if !found {
		// expired evidence can reference a removed validator
		return sdkmath.ZeroInt()
	}

	slashAmount := validator.Tokens.MulRaw(slashFactorBps).QuoRaw(10_000)
	if !slashAmount.IsPositive() {
		return sdkmath.ZeroInt()
	}

	validator.Tokens = validator.Tokens.Sub(slashAmount)
	k.SetValidator(ctx, validator)

	pool := types.BondedPoolName
	if validator.Status != types.Bonded {
		pool = types.NotBondedPoolName
	}

	burn := sdk.NewCoins(sdk.Coin{Denom: k.BondDenom(ctx), Amount: slashAmount})
	if err := k.bk.BurnCoins(ctx, pool, burn); err != nil {
		panic(err) // pool invariant broken: it must back validator tokens
	}

	k.Logger(ctx).Info("slashed validator",
		"validator", validator.OperatorAddress.String(),
		"factor_bps", slashFactorBps,
		"burned", slashAmount.String(),
	)

	ctx.EventManager().EmitEvent(sdk.NewEvent("slash",
		sdk.NewAttribute("validator", validator.OperatorAddress.String()),
		sdk.NewAttribute("burned", slashAmount.String()),
	))

	return slashAmount
}

// Jail removes the validator from the active set until unjailed.
func (k Keeper) Jail(ctx sdkctx.Context, consAddr sdk.ConsAddress) {
	validator, found := k.GetValidatorByConsAddr(ctx, consAddr)
	if !found || validator.Jailed {
		return
	}

	validator.Jailed = true
	k.SetValidator(ctx, validator)

	ctx.EventManager().EmitEvent(sdk.NewEvent("jail",
		sdk.NewAttribute("validator", validator.OperatorAddress.String()),
	))
}

// Unjail restores a jailed validator's eligibility.
func (k Keeper) Unjail(ctx sdkctx.Context, consAddr sdk.ConsAddress) {
	validator, found := k.GetValidatorByConsAddr(ctx, consAddr)
	if !found || !validator.Jailed {
		return
	}

	validator.Jailed = false
	k.SetValidator(ctx, validator)
}
