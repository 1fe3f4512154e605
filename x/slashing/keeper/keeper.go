package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/slashing/types"
)

// Keeper tracks validator liveness and applies downtime and equivocation
// penalties through the staking keeper.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
	sk       types.StakingKeeper
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper, sk types.StakingKeeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
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
		panic(fmt.Sprintf("corrupt slashing params: %v", err))
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

// GetSigningInfo returns one validator's liveness record.
func (k Keeper) GetSigningInfo(ctx sdkctx.ReadContext, consAddr sdk.ConsAddress) (types.ValidatorSigningInfo, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.SigningInfoKey(consAddr))
	if bz == nil {
		return types.ValidatorSigningInfo{}, false
	}

	var info types.ValidatorSigningInfo
	if err := json.Unmarshal(bz, &info); err != nil {
		panic(fmt.Sprintf("corrupt signing info record: %v", err))
	}
	return info, true
}

func (k Keeper) SetSigningInfo(ctx sdkctx.Context, info types.ValidatorSigningInfo) {
	bz, err := json.Marshal(info)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.SigningInfoKey(info.Address), bz)
}

// IterateSigningInfos walks all liveness records.
func (k Keeper) IterateSigningInfos(ctx sdkctx.ReadContext, cb func(types.ValidatorSigningInfo) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.SigningInfoPrefix)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var info types.ValidatorSigningInfo
		if err := json.Unmarshal(it.Value(), &info); err != nil {
			panic(fmt.Sprintf("corrupt signing info record: %v", err))
		}
		if cb(info) {
			break
		}
	}
}

// HandleValidatorSignature updates the missed-block counter from one
// commit vote and jails+slashes on exceeding the window's tolerance.
func (k Keeper) HandleValidatorSignature(ctx sdkctx.Context, consAddr sdk.ConsAddress, signed bool) {
	params := k.GetParams(ctx)

	info, found := k.GetSigningInfo(ctx, consAddr)
	if !found {
		info = types.ValidatorSigningInfo{Address: consAddr, StartHeight: ctx.Height()}
	}

	if signed {
		if info.MissedBlocksCounter > 0 {
			info.MissedBlocksCounter--
		}
		k.SetSigningInfo(ctx, info)
		return
	}

	info.MissedBlocksCounter++

	maxMissed := params.SignedBlocksWindow * (10_000 - params.MinSignedPerWindowBps) / 10_000
	if info.MissedBlocksCounter > maxMissed {
		k.Logger(ctx).Info("slashing validator for downtime",
			"validator", consAddr.String(), "missed", info.MissedBlocksCounter)

		k.sk.Slash(ctx, consAddr, params.SlashFractionDowntimeBps)
		k.sk.Jail(ctx, consAddr)

		info.JailedUntil = ctx.BlockTime().Add(params.DowntimeJailDuration)
		info.MissedBlocksCounter = 0

		ctx.EventManager().EmitEvent(sdk.NewEvent("liveness_slash",
			sdk.NewAttribute("address", consAddr.String()),
		))
	}

	k.SetSigningInfo(ctx, info)
}

// HandleEvidence processes consensus misbehavior: equivocation slashes and
// jails the offender.
func (k Keeper) HandleEvidence(ctx sdkctx.Context, evidence abci.Misbehavior) {
	if evidence.Type != abci.MisbehaviorType_DUPLICATE_VOTE {
		return
	}

	params := k.GetParams(ctx)
	consAddr := sdk.ConsAddress(evidence.Validator.Address)

	k.Logger(ctx).Info("slashing validator for equivocation",
		"validator", consAddr.String(), "height", evidence.Height)

	k.sk.Slash(ctx, consAddr, params.SlashFractionDoubleSignBps)
	k.sk.Jail(ctx, consAddr)

	ctx.EventManager().EmitEvent(sdk.NewEvent("equivocation_slash",
		sdk.NewAttribute("address", consAddr.String()),
	))
}

// BeginBlocker feeds last-commit signatures and evidence into the liveness
// tracker.
func (k Keeper) BeginBlocker(ctx sdkctx.Context, lastCommit abci.CommitInfo, misbehavior []abci.Misbehavior) {
	for _, vote := range lastCommit.Votes {
		signed := vote.BlockIdFlag == cmtproto.BlockIDFlagCommit
		k.HandleValidatorSignature(ctx, sdk.ConsAddress(vote.Validator.Address), signed)
	}

	for _, evidence := range misbehavior {
		k.HandleEvidence(ctx, evidence)
	}
}

// InitGenesis restores params and signing infos.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) {
	k.SetParams(ctx, genesis.Params)
	for _, info := range genesis.SigningInfos {
		k.SetSigningInfo(ctx, info)
	}
}

// ExportGenesis reads them back out.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	genesis := types.GenesisState{
		Params:       k.GetParams(ctx),
		SigningInfos: []types.ValidatorSigningInfo{},
	}

	k.IterateSigningInfos(ctx, func(info types.ValidatorSigningInfo) bool {
		genesis.SigningInfos = append(genesis.SigningInfos, info)
		return false
	})

	return genesis
}
