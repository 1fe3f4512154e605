package keeper

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/params"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	authtypes "github.com/gears-network/gears/x/auth/types"
	"github.com/gears-network/gears/x/distribution/types"
)

// Keeper maintains the fee pool and per-validator outstanding rewards. The
// reward model is proportional: a delegator's claim on a validator's
// outstanding rewards is its share of the validator's tokens at withdrawal
// time.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
	bk       types.BankKeeper
	ak       types.AccountKeeper
	sk       types.StakingKeeper
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper, bk types.BankKeeper, ak types.AccountKeeper, sk types.StakingKeeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
		bk:       bk,
		ak:       ak,
		sk:       sk,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdkctx.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

var paramsKey = []byte("Params")

func (k Keeper) GetParams(ctx sdkctx.ReadContext) types.Params {
	bz := k.subspace.GetRaw(ctx, paramsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	var p types.Params
	if err := json.Unmarshal(bz, &p); err != nil {
		panic(fmt.Sprintf("corrupt distribution params: %v", err))
	}
	return p
}

func (k Keeper) SetParams(ctx sdkctx.Context, p types.Params) {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	k.subspace.SetRaw(ctx, paramsKey, bz)
}

// GetFeePool returns the community pool state.
func (k Keeper) GetFeePool(ctx sdkctx.ReadContext) types.FeePool {
	bz := ctx.KVStore(k.storeKey).Get(types.FeePoolKey)
	if bz == nil {
		return types.FeePool{CommunityPool: sdk.Coins{}}
	}

	var pool types.FeePool
	if err := json.Unmarshal(bz, &pool); err != nil {
		panic(fmt.Sprintf("corrupt fee pool record: %v", err))
	}
	return pool
}

func (k Keeper) SetFeePool(ctx sdkctx.Context, pool types.FeePool) {
	bz, err := json.Marshal(pool)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.FeePoolKey, bz)
}

// GetOutstandingRewards returns one validator's unwithdrawn rewards.
func (k Keeper) GetOutstandingRewards(ctx sdkctx.ReadContext, val sdk.ValAddress) sdk.Coins {
	bz := ctx.KVStore(k.storeKey).Get(types.OutstandingRewardsKey(val))
	if bz == nil {
		return sdk.Coins{}
	}

	var coins sdk.Coins
	if err := json.Unmarshal(bz, &coins); err != nil {
		panic(fmt.Sprintf("corrupt rewards record: %v", err))
	}
	return coins
}

func (k Keeper) setOutstandingRewards(ctx sdkctx.Context, val sdk.ValAddress, coins sdk.Coins) {
	store := ctx.KVStoreMut(k.storeKey)
	key := types.OutstandingRewardsKey(val)

	if coins.IsZero() {
		store.Delete(key)
		return
	}

	bz, err := json.Marshal(coins)
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// AllocateTokens distributes the previous block's collected fees: community
// tax into the fee pool, the remainder to bonded validators by power. Runs
// in begin-block.
func (k Keeper) AllocateTokens(ctx sdkctx.Context) error {
	feeCollector := k.ak.GetModuleAddress(authtypes.FeeCollectorName)

	collected := k.bk.GetAllBalances(ctx, feeCollector)
	if collected.IsZero() {
		return nil
	}

	if err := k.bk.SendCoinsFromModuleToModule(ctx, authtypes.FeeCollectorName, types.ModuleName, collected); err != nil {
		return err
	}

	params := k.GetParams(ctx)
	pool := k.GetFeePool(ctx)

	var totalPower int64
	type valPower struct {
		operator sdk.ValAddress
		power    int64
	}
	var validators []valPower

	k.sk.IterateBondedValidators(ctx, func(operator sdk.ValAddress, _ sdkmath.Int, power int64) bool {
		if power > 0 {
			validators = append(validators, valPower{operator: operator, power: power})
			totalPower += power
		}
		return false
	})

	if totalPower == 0 {
		// no one to pay: everything goes to the community pool
		pool.CommunityPool = pool.CommunityPool.Add(collected...)
		k.SetFeePool(ctx, pool)
		return nil
	}

	for _, coin := range collected {
		tax := coin.Amount.MulRaw(params.CommunityTaxBps).QuoRaw(10_000)
		distributable := coin.Amount.Sub(tax)

		allocated := sdkmath.ZeroInt()
		for _, v := range validators {
			share := distributable.MulRaw(v.power).QuoRaw(totalPower)
			if !share.IsPositive() {
				continue
			}

			rewards := k.GetOutstandingRewards(ctx, v.operator)
			k.setOutstandingRewards(ctx, v.operator, rewards.Add(sdk.Coin{Denom: coin.Denom, Amount: share}))
			allocated = allocated.Add(share)
		}

		// rounding dust and the tax accrue to the community pool
		dust := coin.Amount.Sub(allocated)
		if dust.IsPositive() {
			pool.CommunityPool = pool.CommunityPool.Add(sdk.Coin{Denom: coin.Denom, Amount: dust})
		}
	}

	k.SetFeePool(ctx, pool)
	return nil
}

// WithdrawDelegatorReward pays the delegator its proportional share of the
// validator's outstanding rewards and reduces them accordingly.
func (k Keeper) WithdrawDelegatorReward(ctx sdkctx.Context, del sdk.AccAddress, val sdk.ValAddress) (sdk.Coins, error) {
	delTokens, found := k.sk.GetDelegationTokens(ctx, del, val)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrNoDelegation, "%s with %s", del, val)
	}

	valTokens, found := k.sk.GetValidatorTokens(ctx, val)
	if !found || !valTokens.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrNoRewards, "validator %s", val)
	}

	outstanding := k.GetOutstandingRewards(ctx, val)

	var reward sdk.Coins
	for _, coin := range outstanding {
		share := coin.Amount.Mul(delTokens).Quo(valTokens)
		if share.IsPositive() {
			reward = reward.Add(sdk.Coin{Denom: coin.Denom, Amount: share})
		}
	}

	if reward.IsZero() {
		return nil, errorsmod.Wrapf(types.ErrNoRewards, "delegator %s", del)
	}

	if err := k.bk.SendCoinsFromModuleToAccount(ctx, types.ModuleName, del, reward); err != nil {
		return nil, err
	}

	k.setOutstandingRewards(ctx, val, outstanding.Sub(reward...))

	ctx.EventManager().EmitEvent(sdk.NewEvent("withdraw_rewards",
		sdk.NewAttribute("delegator", del.String()),
		sdk.NewAttribute("validator", val.String()),
		sdk.NewAttribute("amount", reward.String()),
	))

	return reward, nil
}

// InitGenesis restores the fee pool and params.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) {
	k.SetParams(ctx, genesis.Params)
	k.SetFeePool(ctx, genesis.FeePool)
}

// ExportGenesis reads them back out.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	return types.GenesisState{
		Params:  k.GetParams(ctx),
		FeePool: k.GetFeePool(ctx),
	}
}
