package distribution

import (
	"encoding/json"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/types/tx"
	"github.com/gears-network/gears/x/distribution/keeper"
	"github.com/gears-network/gears/x/distribution/types"
)

// Query paths served by the module.
const (
	QueryCommunityPoolPath      = "/distribution/community_pool"
	QueryOutstandingRewardsPath = "/distribution/outstanding_rewards"
)

// AppModule implements the distribution module. Its begin-block allocates
// the previous block's fees.
type AppModule struct {
	keeper keeper.Keeper
}

var (
	_ module.AppModule        = AppModule{}
	_ module.HasMsgHandlers   = AppModule{}
	_ module.HasQueryHandlers = AppModule{}
	_ module.HasBeginBlocker  = AppModule{}
)

func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k}
}

func (AppModule) Name() string {
	return types.ModuleName
}

func (AppModule) DefaultGenesis() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesisState())
	if err != nil {
		panic(err)
	}
	return bz
}

func (AppModule) ValidateGenesis(bz json.RawMessage) error {
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return err
	}
	return genesis.Validate()
}

func (am AppModule) InitGenesis(ctx sdkctx.Context, bz json.RawMessage) []abci.ValidatorUpdate {
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		panic(err)
	}

	am.keeper.InitGenesis(ctx, genesis)
	return nil
}

func (am AppModule) ExportGenesis(ctx sdkctx.Context) json.RawMessage {
	bz, err := json.Marshal(am.keeper.ExportGenesis(ctx))
	if err != nil {
		panic(err)
	}
	return bz
}

// BeginBlock allocates collected fees to validators and the community pool.
func (am AppModule) BeginBlock(ctx sdkctx.Context, _ module.BeginBlockRequest) error {
	return am.keeper.AllocateTokens(ctx)
}

func (am AppModule) RegisterMsgHandlers(router module.MsgRouter) {
	router.RegisterHandler(types.MsgWithdrawDelegatorRewardURL, types.UnmarshalMsgWithdrawDelegatorReward, am.handleWithdraw)
}

func (am AppModule) handleWithdraw(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	withdraw := msg.(types.MsgWithdrawDelegatorReward)

	reward, err := am.keeper.WithdrawDelegatorReward(ctx, withdraw.DelegatorAddress, withdraw.ValidatorAddress)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Amount string `json:"amount"`
	}{Amount: reward.String()})
}

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QueryCommunityPoolPath, am.queryCommunityPool)
	router.RegisterQuery(QueryOutstandingRewardsPath, am.queryOutstandingRewards)
}

func (am AppModule) queryCommunityPool(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(am.keeper.GetFeePool(ctx))
}

// QueryOutstandingRewardsRequest asks for one validator's unwithdrawn
// rewards.
type QueryOutstandingRewardsRequest struct {
	ValidatorAddress string `json:"validator_address"`
}

func (am AppModule) queryOutstandingRewards(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryOutstandingRewardsRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, err
	}

	val, err := validatorAddress(request.ValidatorAddress)
	if err != nil {
		return nil, err
	}

	rewards := am.keeper.GetOutstandingRewards(ctx, val)
	return json.Marshal(struct {
		Rewards any `json:"rewards"`
	}{Rewards: rewards})
}
